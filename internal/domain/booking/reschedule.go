package booking

type ProposalStatus string

const (
	ProposalNone     ProposalStatus = ""
	ProposalPending  ProposalStatus = "PENDING"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalDeclined ProposalStatus = "DECLINED"
)
