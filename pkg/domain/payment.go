package domain

import "encoding/json"

// UnmarshalJSON decodes a payment, folding the pendingApproval, approved and
// rejected booleans written by older snapshots into Approval. A legacy record
// with more than one flag set has no defined approval state and decodes as
// ApprovalNone.
func (p *Payment) UnmarshalJSON(data []byte) error {
	type plain Payment
	var aux struct {
		plain
		PendingApproval bool `json:"pendingApproval"`
		Approved        bool `json:"approved"`
		Rejected        bool `json:"rejected"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Payment(aux.plain)
	if p.Approval != "" {
		return nil
	}
	p.Approval = foldLegacyApproval(aux.PendingApproval, aux.Approved, aux.Rejected)
	return nil
}

func foldLegacyApproval(pending, approved, rejected bool) Approval {
	set := 0
	state := ApprovalNone
	if pending {
		set++
		state = ApprovalAwaiting
	}
	if approved {
		set++
		state = ApprovalApproved
	}
	if rejected {
		set++
		state = ApprovalRejected
	}
	if set != 1 {
		return ApprovalNone
	}
	return state
}
