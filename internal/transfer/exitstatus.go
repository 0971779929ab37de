package transfer

// ExitStatus is the outcome of one downloader invocation.
type ExitStatus int

const (
	// ExitSuccess means the file was transferred completely.
	ExitSuccess ExitStatus = iota
	// ExitPartialFile means the server closed the connection before the
	// full range arrived. The whole attempt is restarted.
	ExitPartialFile
	// ExitFailure is any other non-zero exit. The transfer is abandoned.
	ExitFailure
)

// curlPartialFile is curl's CURLE_PARTIAL_FILE.
const curlPartialFile = 18

func (s ExitStatus) String() string {
	switch s {
	case ExitSuccess:
		return "success"
	case ExitPartialFile:
		return "partial-file"
	default:
		return "failure"
	}
}

func classifyCurl(code int) ExitStatus {
	switch code {
	case 0:
		return ExitSuccess
	case curlPartialFile:
		return ExitPartialFile
	default:
		return ExitFailure
	}
}
