package store

import "fmt"

// Schema maps each logical table to its primary-key attribute name. A
// store only needs this to derive row keys; it imposes no other shape on
// items.
type Schema map[string]string

func (s Schema) keyAttribute(table string) (string, error) {
	attr, ok := s[table]
	if !ok {
		return "", fmt.Errorf("table %q is not declared in the store schema", table)
	}
	return attr, nil
}

func (s Schema) itemKey(table string, item Item) (string, error) {
	attr, err := s.keyAttribute(table)
	if err != nil {
		return "", err
	}
	v, ok := item[attr]
	if !ok {
		return "", fmt.Errorf("item for table %q is missing primary-key attribute %q", table, attr)
	}
	return v.Raw(), nil
}
