package main

import (
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/record"
)

// buildTree groups records under the name they resolve to. Every address
// record is a branch holding the aliases that point at it; aliases whose
// target has no address record get a branch of their own.
func buildTree(domain string, records []record.Record) treeprint.Tree {
	tree := treeprint.New()
	zoneBranch := tree.AddBranch(domain)

	branches := make(map[string]treeprint.Tree)
	for _, r := range records {
		if r.Kind() == record.KindAddress {
			if _, ok := branches[r.Name()]; !ok {
				branches[r.Name()] = zoneBranch.AddBranch(fmt.Sprintf("%s %s %s", r.Name(), r.Type(), r.Value()))
			}
		}
	}

	for _, r := range records {
		if r.Kind() != record.KindAlias {
			continue
		}
		branch, ok := branches[r.Value()]
		if !ok {
			branch = zoneBranch.AddBranch(r.Value())
			branches[r.Value()] = branch
		}
		branch.AddNode(r.Name())
	}

	return tree
}
