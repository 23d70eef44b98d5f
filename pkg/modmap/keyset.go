package modmap

import "slices"

// keySet is a set of keys that remembers insertion order.
type keySet struct {
	order []Key
	index map[Key]struct{}
}

func newKeySet() keySet {
	return keySet{index: make(map[Key]struct{})}
}

func (s *keySet) add(k Key) {
	if _, ok := s.index[k]; ok {
		return
	}
	s.index[k] = struct{}{}
	s.order = append(s.order, k)
}

func (s *keySet) remove(k Key) bool {
	if _, ok := s.index[k]; !ok {
		return false
	}
	delete(s.index, k)
	s.order = slices.DeleteFunc(s.order, func(o Key) bool { return o == k })
	return true
}

func (s *keySet) has(k Key) bool {
	_, ok := s.index[k]
	return ok
}

func (s *keySet) len() int {
	return len(s.order)
}

func (s *keySet) keys() []Key {
	return slices.Clone(s.order)
}
