package domain

import "fmt"

type OwnerKind string

const (
	OwnerNone    OwnerKind = ""
	OwnerSession OwnerKind = "session"
	OwnerAccount OwnerKind = "account"
)

// Owner is the key a cart or order belongs to: an anonymous session,
// an authenticated account, or nobody.
type Owner struct {
	Kind OwnerKind
	ID   string
}

func NoOwner() Owner {
	return Owner{}
}

func SessionOwner(sessionID string) Owner {
	if sessionID == "" {
		return NoOwner()
	}
	return Owner{Kind: OwnerSession, ID: sessionID}
}

func AccountOwner(accountID string) Owner {
	if accountID == "" {
		return NoOwner()
	}
	return Owner{Kind: OwnerAccount, ID: accountID}
}

func (o Owner) IsNone() bool {
	return o.Kind == OwnerNone || o.ID == ""
}

func (o Owner) IsAccount() bool {
	return o.Kind == OwnerAccount && o.ID != ""
}

func (o Owner) IsSession() bool {
	return o.Kind == OwnerSession && o.ID != ""
}

func (o Owner) String() string {
	if o.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", o.Kind, o.ID)
}

func ParseOwnerKind(s string) (OwnerKind, error) {
	switch OwnerKind(s) {
	case OwnerSession, OwnerAccount:
		return OwnerKind(s), nil
	default:
		return OwnerNone, fmt.Errorf("owner kind[%s] is not valid", s)
	}
}
