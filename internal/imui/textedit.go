package imui

import "unicode"

// textEdit is the editing state of a focused text field. cursor is a rune
// offset into text.
type textEdit struct {
	text   string
	cursor int
}

func newTextEdit(text string) *textEdit {
	return &textEdit{text: text, cursor: len([]rune(text))}
}

func (e *textEdit) pos() int {
	n := len([]rune(e.text))
	if e.cursor < 0 {
		return 0
	}
	if e.cursor > n {
		return n
	}
	return e.cursor
}

func (e *textEdit) set(text string, cursor int) {
	e.text = text
	e.cursor = cursor
	e.cursor = e.pos()
}

func (e *textEdit) insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(e.text)
	pos := e.pos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	e.set(string(updated), pos+len(insert))
	return true
}

func (e *textEdit) deleteRuneBackward() bool {
	runes := []rune(e.text)
	pos := e.pos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	updated := append(runes[:pos-1], runes[pos:]...)
	e.set(string(updated), pos-1)
	return true
}

func (e *textEdit) deleteRuneForward() bool {
	runes := []rune(e.text)
	pos := e.pos()
	if pos >= len(runes) {
		return false
	}
	updated := append(runes[:pos], runes[pos+1:]...)
	e.set(string(updated), pos)
	return true
}

func (e *textEdit) deleteWordBackward() bool {
	runes := []rune(e.text)
	pos := e.pos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := wordStart(runes, pos)
	updated := append(runes[:i], runes[pos:]...)
	e.set(string(updated), i)
	return true
}

func (e *textEdit) moveRune(delta int) {
	e.set(e.text, e.pos()+delta)
}

func (e *textEdit) moveWordBackward() {
	e.cursor = wordStart([]rune(e.text), e.pos())
}

func (e *textEdit) moveWordForward() {
	runes := []rune(e.text)
	i := e.pos()
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	e.cursor = i
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}
