package ledger

import (
	"sort"
	"strings"
	"time"
)

// Posting is a dated amount booked to one account.
type Posting struct {
	Date   time.Time
	Amount Amount
	Payee  string
}

// Account is a node in the account tree. The root account has an empty
// name and holds the top-level accounts ("Assets", "Expenses", ...) as
// children.
type Account struct {
	name     string
	fullName string
	parent   *Account
	children []*Account // sorted by name
	postings []Posting
}

func newRootAccount() *Account {
	return &Account{}
}

// Name returns the last segment of the account path.
func (a *Account) Name() string {
	return a.name
}

// FullName returns the colon separated path from the root.
func (a *Account) FullName() string {
	return a.fullName
}

// Parent returns the parent account, or nil for the root.
func (a *Account) Parent() *Account {
	return a.parent
}

// IsRoot reports whether a is the root of the tree.
func (a *Account) IsRoot() bool {
	return a.parent == nil
}

// Children returns the direct sub-accounts ordered by name.
func (a *Account) Children() []*Account {
	return a.children
}

// Postings returns the postings booked directly to this account, in
// journal date order.
func (a *Account) Postings() []Posting {
	return a.postings
}

// Depth returns the number of segments in the full name.
func (a *Account) Depth() int {
	if a.fullName == "" {
		return 0
	}
	return strings.Count(a.fullName, ":") + 1
}

// Child returns the direct sub-account called name.
func (a *Account) Child(name string) *Account {
	i := sort.Search(len(a.children), func(i int) bool {
		return a.children[i].name >= name
	})
	if i < len(a.children) && a.children[i].name == name {
		return a.children[i]
	}
	return nil
}

// find follows segments down from a.
func (a *Account) find(segments []string) *Account {
	current := a
	for _, segment := range segments {
		if current = current.Child(segment); current == nil {
			return nil
		}
	}
	return current
}

// findOrCreate follows segments down from a, creating missing accounts.
func (a *Account) findOrCreate(segments []string) *Account {
	current := a
	for _, segment := range segments {
		child := current.Child(segment)
		if child == nil {
			child = current.addChild(segment)
		}
		current = child
	}
	return current
}

func (a *Account) addChild(name string) *Account {
	fullName := name
	if a.fullName != "" {
		fullName = a.fullName + ":" + name
	}
	child := &Account{name: name, fullName: fullName, parent: a}

	i := sort.Search(len(a.children), func(i int) bool {
		return a.children[i].name >= name
	})
	a.children = append(a.children, nil)
	copy(a.children[i+1:], a.children[i:])
	a.children[i] = child
	return child
}

// Walk visits a and its descendants in pre-order. Returning false from fn
// skips the children of the visited account.
func (a *Account) Walk(fn func(*Account) bool) {
	if !fn(a) {
		return
	}
	for _, child := range a.children {
		child.Walk(fn)
	}
}
