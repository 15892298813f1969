package sublink

import (
	"fmt"
	"sort"
	"strings"
)

// A relation is a pointer column together with its traversal cardinality.
// Single jump relations resolve in one step: the pointer of the start row is
// the answer. Iterative relations are chains: the pointer is applied to the
// current row repeatedly until the sentinel terminator.
type relation struct {
	field     string
	iterative bool
}

var relations = map[string]relation{
	FieldFirstProgenitorID:        {FieldFirstProgenitorID, true},
	FieldNextProgenitorID:         {FieldNextProgenitorID, true},
	FieldDescendantID:             {FieldDescendantID, true},
	FieldNextSubhaloInFOFGroupID:  {FieldNextSubhaloInFOFGroupID, true},
	FieldMainLeafProgenitorID:     {FieldMainLeafProgenitorID, false},
	FieldLastProgenitorID:         {FieldLastProgenitorID, false},
	FieldRootDescendantID:         {FieldRootDescendantID, false},
	FieldFirstSubhaloInFOFGroupID: {FieldFirstSubhaloInFOFGroupID, false},
}

// RelationNames returns the valid relation names, sorted.
func RelationNames() []string {
	names := make([]string, 0, len(relations))
	for name := range relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseRelation(name string) (relation, error) {
	rel, ok := relations[name]
	if !ok {
		return relation{}, fmt.Errorf("%w: %q, valid relations are %s",
			ErrUnknownRelation, name, strings.Join(RelationNames(), ", "))
	}
	return rel, nil
}
