package nn

// ParseIdent extracts the activation-name segment from the first
// a<digits>_<name>_<digits> sequence found anywhere in a layer identifier,
// so surrounding characters do not defeat the convention. ok is false when
// no such sequence occurs; callers keep the lenient ActivationNone default
// but can make the miss observable.
func ParseIdent(ident string) (name string, ok bool) {
	for i := range ident {
		if ident[i] != 'a' {
			continue
		}
		name, ok = matchIdent(ident[i+1:])
		if ok {
			return
		}
	}
	return
}

// matchIdent matches <digits>_<name>_<digits> at the start of rest.
func matchIdent(rest string) (name string, ok bool) {
	rest, n := eatDigits(rest)
	if n == 0 || len(rest) == 0 || rest[0] != '_' {
		return
	}
	rest = rest[1:]

	var m int
	for m < len(rest) && rest[m] >= 'a' && rest[m] <= 'z' {
		m++
	}
	if m == 0 || m == len(rest) || rest[m] != '_' {
		return
	}
	name, rest = rest[:m], rest[m+1:]

	_, n = eatDigits(rest)
	if n == 0 {
		name = ""
		return
	}

	ok = true
	return
}

func eatDigits(s string) (rest string, n int) {
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	rest = s[n:]
	return
}
