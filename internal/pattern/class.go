package pattern

// byteSet is a 256-bit membership table.
type byteSet [4]uint64

func (s *byteSet) add(c byte) {
	s[c>>6] |= 1 << (c & 63)
}

func (s *byteSet) addRange(lo, hi byte) {
	for c := int(lo); c <= int(hi); c++ {
		s.add(byte(c))
	}
}

func (s *byteSet) union(o byteSet) {
	for i := range s {
		s[i] |= o[i]
	}
}

func (s *byteSet) invert() {
	for i := range s {
		s[i] = ^s[i]
	}
}

// contains is the class predicate. It has a value receiver so the method
// value captures a copy of the table.
func (s byteSet) contains(c byte) bool {
	return s[c>>6]&(1<<(c&63)) != 0
}

// single returns the only member of s, if it has exactly one.
func (s byteSet) single() (byte, bool) {
	var found byte
	n := 0
	for c := 0; c < 256; c++ {
		if s.contains(byte(c)) {
			found = byte(c)
			n++
			if n > 1 {
				return 0, false
			}
		}
	}
	return found, n == 1
}

// classEscape returns the set denoted by \d, \w, \s and their negations.
func classEscape(c byte) (byteSet, bool) {
	var s byteSet
	switch c {
	case 'd', 'D':
		s.addRange('0', '9')
	case 'w', 'W':
		s.addRange('0', '9')
		s.addRange('a', 'z')
		s.addRange('A', 'Z')
		s.add('_')
	case 's', 'S':
		for _, b := range []byte(" \t\n\r\f\v") {
			s.add(b)
		}
	default:
		return s, false
	}
	if c >= 'A' && c <= 'Z' {
		s.invert()
	}
	return s, true
}
