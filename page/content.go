package page

// Content is the result of reading a page source: either Text or Binary.
type Content interface {
	Bytes() []byte
	IsBinary() bool
}

// Text is page data that decoded as UTF-8.
type Text string

func (t Text) Bytes() []byte { return []byte(t) }
func (t Text) IsBinary() bool { return false }
func (t Text) String() string { return string(t) }

// Binary is page data that is not valid UTF-8. It is never templated.
type Binary []byte

func (b Binary) Bytes() []byte { return b }
func (b Binary) IsBinary() bool { return true }
