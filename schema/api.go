package schema

type RespErr struct {
	Err string `json:"error"`
}

func (r RespErr) Error() string {
	return r.Err
}

// RespSubmission acknowledges phase one of a call submission.
type RespSubmission struct {
	SubmissionId string `json:"submissionId"`
	Caller       string `json:"caller"`
	Status       string `json:"status"`
}

// RespCallResult is the terminal call outcome returned by the sync endpoint.
type RespCallResult struct {
	SubmissionId string  `json:"submissionId"`
	Caller       string  `json:"caller"`
	Status       string  `json:"status"`
	LedgerTime   int64   `json:"ledgerTime"`
	Events       []Event `json:"events,omitempty"`
	ErrMsg       string  `json:"errMsg,omitempty"`
}

type RespPrice struct {
	DomainName string `json:"domainName"`
	Price      string `json:"price"` // base units
}

type RespDomainKey struct {
	DomainName     string `json:"domainName"`
	TopLevelDomain string `json:"topLevelDomain"`
	Key            string `json:"key"`
}

type RespInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
