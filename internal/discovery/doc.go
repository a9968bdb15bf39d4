// Package discovery finds `shoplist serve` instances on the local network.
//
// Servers advertise themselves over mDNS as _shoplist._tcp with TXT records
// naming the collection path and server version:
//
//	path=/items
//	version=v0.3.0
//
// Scan collects everything that answers within the timeout; First returns
// as soon as one store answers.
//
//	ep, err := discovery.NewScanner().First(ctx)
//	if err != nil {
//	    return err
//	}
//	client := itemstore.NewClient(ep.URL())
package discovery
