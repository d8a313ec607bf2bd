package classifier

// ErrorKind is the category of a failed remote call.
type ErrorKind string

const (
	Network       ErrorKind = "network"
	Auth          ErrorKind = "auth"
	QuotaExceeded ErrorKind = "quota_exceeded"
	Server        ErrorKind = "server"
	Permission    ErrorKind = "permission"
	Corruption    ErrorKind = "corruption"
	Unknown       ErrorKind = "unknown"
)

// Kinds lists every category, in a stable order.
var Kinds = []ErrorKind{Network, Auth, QuotaExceeded, Server, Permission, Corruption, Unknown}

// Classification is the verdict for one failure.
type Classification struct {
	Kind       ErrorKind
	Retryable  bool
	MaxRetries int
}

// Retryable reports whether failures of kind k may be retried.
func (k ErrorKind) Retryable() bool {
	switch k {
	case Network, Server, Corruption:
		return true
	default:
		return false
	}
}

// MaxRetries is the per-category retry ceiling.
func (k ErrorKind) MaxRetries() int {
	switch k {
	case Network:
		return 5
	case Server:
		return 3
	case Corruption:
		return 2
	default:
		return 1
	}
}

func (k ErrorKind) String() string {
	return string(k)
}

func classification(k ErrorKind) Classification {
	return Classification{Kind: k, Retryable: k.Retryable(), MaxRetries: k.MaxRetries()}
}
