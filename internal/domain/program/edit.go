package program

import (
	"bytes"
	"go/format"
	"go/token"
)

// Insert places a copy of donor immediately before target.
func (f *File) Insert(target, donor Slot) []byte {
	text := f.Text(donor)

	lineStart := lineStartOf(f.src, target.Start)
	prefix := f.src[lineStart:target.Start]

	if isBlank(prefix) {
		return replaceRange(f.src, target.Start, target.Start, text+"\n"+string(prefix))
	}

	return replaceRange(f.src, target.Start, target.Start, text+"; ")
}

// Delete removes target. A line left blank by the removal is dropped too.
func (f *File) Delete(target Slot) []byte {
	if target.Placeholder {
		return clone(f.src)
	}

	lineStart := lineStartOf(f.src, target.Start)
	lineEnd := lineEndOf(f.src, target.End)

	if isBlank(f.src[lineStart:target.Start]) && isBlank(f.src[target.End:lineEnd]) {
		if lineEnd < len(f.src) {
			lineEnd++
		}

		return replaceRange(f.src, lineStart, lineEnd, "")
	}

	return replaceRange(f.src, target.Start, target.End, "")
}

// Swap exchanges the text of a and b. Overlapping slots leave the source
// unchanged. Swapping with a placeholder moves the other statement into it.
func (f *File) Swap(a, b Slot) []byte {
	if Overlaps(a, b) {
		return clone(f.src)
	}

	first, second := a, b
	if second.Start < first.Start {
		first, second = second, first
	}

	var buf bytes.Buffer

	buf.Grow(len(f.src))
	buf.Write(f.src[:first.Start])
	buf.WriteString(f.Text(second))
	buf.Write(f.src[first.End:second.Start])
	buf.WriteString(f.Text(first))
	buf.Write(f.src[second.End:])

	return buf.Bytes()
}

// ReplaceOperator rewrites the operator of op.
func (f *File) ReplaceOperator(op BinaryOp, with token.Token) []byte {
	return replaceRange(f.src, op.Offset, op.Offset+len(op.Op.String()), with.String())
}

// ReplaceSlot substitutes text for the statement at s.
func (f *File) ReplaceSlot(s Slot, text string) []byte {
	return replaceRange(f.src, s.Start, s.End, text)
}

// Overlaps reports whether two slots share any byte. A zero-width slot
// overlaps a range that strictly contains its position.
func Overlaps(a, b Slot) bool {
	if a.Start == a.End || b.Start == b.End {
		point, other := a, b
		if b.Start == b.End {
			point, other = b, a
		}

		if other.Start == other.End {
			return point.Start == other.Start
		}

		return other.Start < point.Start && point.Start < other.End
	}

	return a.Start < b.End && b.Start < a.End
}

// Format gofmt-normalizes src, returning it unchanged when it does not parse.
func Format(src []byte) []byte {
	out, err := format.Source(src)
	if err != nil {
		return src
	}

	return out
}

func offsetForPos(fset *token.FileSet, pos token.Pos) (int, bool) {
	if !pos.IsValid() {
		return 0, false
	}

	file := fset.File(pos)
	if file == nil {
		return 0, false
	}

	return file.Offset(pos), true
}

func replaceRange(content []byte, start, end int, replacement string) []byte {
	out := make([]byte, 0, len(content)-(end-start)+len(replacement))
	out = append(out, content[:start]...)
	out = append(out, replacement...)
	out = append(out, content[end:]...)

	return out
}

func lineStartOf(src []byte, offset int) int {
	return bytes.LastIndexByte(src[:offset], '\n') + 1
}

func lineEndOf(src []byte, offset int) int {
	idx := bytes.IndexByte(src[offset:], '\n')
	if idx < 0 {
		return len(src)
	}

	return offset + idx
}

func isBlank(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
