package ledger

import (
	"sort"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// BuildAccountTree links a flat account list into a forest keyed by parent id.
// Accounts whose parent is missing from the list are treated as roots.
func BuildAccountTree(accounts []domain.Account) []*domain.AccountNode {
	nodes := make(map[string]*domain.AccountNode, len(accounts))
	for _, acc := range accounts {
		nodes[acc.AccountID] = &domain.AccountNode{Account: acc, Children: []*domain.AccountNode{}}
	}

	roots := make([]*domain.AccountNode, 0)
	for _, acc := range accounts {
		node := nodes[acc.AccountID]
		if acc.ParentAccountID != nil {
			if parent, ok := nodes[*acc.ParentAccountID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*domain.AccountNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Code < nodes[j].Code })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
