package db

type sentinel struct{}

var member = sentinel{}

// StringSet is a set of non-empty strings backed by a Dict.
type StringSet struct {
	data *Dict
}

// NewStringSet creates an empty set.
func NewStringSet(opts ...Option) (*StringSet, error) {
	data, err := NewDict(nil, opts...)
	if err != nil {
		return nil, err
	}
	return &StringSet{data: data}, nil
}

// Add inserts a key into the set
func (s *StringSet) Add(key string) error {
	return s.data.Put(key, member)
}

// Contains checks if a key is in the set
func (s *StringSet) Contains(key string) bool {
	return s.data.Contains(key)
}

// Remove deletes a key from the set, reporting whether it was present.
func (s *StringSet) Remove(key string) bool {
	return s.data.Delete(key) == nil
}

// Len returns the number of members.
func (s *StringSet) Len() int {
	return s.data.Size()
}
