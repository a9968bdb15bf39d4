package shopping

import "fmt"

// Severity classifies a Notice.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Notice is the user-facing outcome of a list operation.
type Notice struct {
	Severity Severity
	Summary  string
	Detail   string
}

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool {
	return n.Summary == "" && n.Detail == ""
}

// String joins summary and detail for single-line display.
func (n Notice) String() string {
	switch {
	case n.Detail == "":
		return n.Summary
	case n.Summary == "":
		return n.Detail
	default:
		return n.Summary + ": " + n.Detail
	}
}

func info(summary, detail string) Notice {
	return Notice{Severity: SeverityInfo, Summary: summary, Detail: detail}
}

func success(summary, detail string) Notice {
	return Notice{Severity: SeveritySuccess, Summary: summary, Detail: detail}
}

func failure(summary, detail string) Notice {
	return Notice{Severity: SeverityError, Summary: summary, Detail: detail}
}
