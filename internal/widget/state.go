package widget

// Mode selects how the postal-code field is presented.
type Mode int

const (
	// ModeSingleInput is free-text entry of the postal code.
	ModeSingleInput Mode = iota

	// ModeDropdown constrains the postal code to a list of options, used
	// when a locality maps to more than one distinct code.
	ModeDropdown
)

func (m Mode) String() string {
	if m == ModeDropdown {
		return "dropdown"
	}
	return "single-input"
}

// StatusKind identifies the outcome of the most recent lookup.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Status is a tagged value: exactly one of idle, loading, success, or
// error(message) at any time. Modeling it as a single value rather than
// independent flags makes the one-visible-status invariant structural.
type Status struct {
	Kind    StatusKind
	Message string
}

func idle() Status    { return Status{Kind: StatusIdle} }
func loading() Status { return Status{Kind: StatusLoading} }
func success() Status { return Status{Kind: StatusSuccess} }

func failure(msg string) Status {
	return Status{Kind: StatusError, Message: msg}
}

// Snapshot is a consistent copy of everything the form needs to render.
type Snapshot struct {
	Locality   string
	PostalCode string
	Mode       Mode
	Status     Status
	Options    []string
}
