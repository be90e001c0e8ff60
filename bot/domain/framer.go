package domain

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
)

const (
	// Delimiter は行の終端文字です。
	Delimiter byte = '\n'
	// DefaultMaxLineBytes は区切り文字なしで保持できる未完了行の上限です。
	DefaultMaxLineBytes = 64 * 1024
)

var ErrLineTooLong = errors.New("line exceeds maximum buffer size")

// Framer は任意に分割されたバイト列を完全な行に組み立てます。
// 末尾の未完了の断片は次の Feed まで保持されます。
type Framer struct {
	buf     []byte
	maxLine int
}

func NewFramer(maxLine int) *Framer {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	return &Framer{maxLine: maxLine}
}

// Feed は p をバッファに追加します。
// 区切り文字を含まない末尾が上限を超えた場合は末尾だけを破棄して ErrLineTooLong を返します。
// それまでに揃った完全な行は Lines で取り出せます。
func (f *Framer) Feed(p []byte) error {
	f.buf = append(f.buf, p...)
	complete := bytes.LastIndexByte(f.buf, Delimiter) + 1
	pending := len(f.buf) - complete
	if pending > f.maxLine {
		f.buf = f.buf[:complete]
		return fmt.Errorf("%w: %d bytes pending, limit %d", ErrLineTooLong, pending, f.maxLine)
	}
	return nil
}

// Lines はバッファ内の完全な行を順に返します。
// 返した行はバッファから取り除かれるため、途中で打ち切っても次の呼び出しで続きから再開できます。
func (f *Framer) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			i := bytes.IndexByte(f.buf, Delimiter)
			if i < 0 {
				if len(f.buf) == 0 {
					f.buf = nil
				}
				return
			}
			line := string(f.buf[:i])
			f.buf = f.buf[i+1:]
			if !yield(line) {
				return
			}
		}
	}
}

// Buffered はまだ取り出されていないバイト数を返します。
func (f *Framer) Buffered() int {
	return len(f.buf)
}
