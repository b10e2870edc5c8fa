package wordbank

func validWord(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
