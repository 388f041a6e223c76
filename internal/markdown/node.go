package markdown

// NodeKind identifies the variant of a document node.
type NodeKind int

const (
	KindHeading NodeKind = iota
	KindParagraph
	KindList
	KindLink
	KindCodeBlock
	KindHorizontalRule
)

var nodeKindNames = [...]string{
	KindHeading:        "Heading",
	KindParagraph:      "Paragraph",
	KindList:           "List",
	KindLink:           "Link",
	KindCodeBlock:      "CodeBlock",
	KindHorizontalRule: "HorizontalRule",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "Unknown"
	}
	return nodeKindNames[k]
}

// Node is a block-level document node. The set of implementations is closed:
// Heading, Paragraph, List, Link, CodeBlock and HorizontalRule.
type Node interface {
	Kind() NodeKind
	node()
}

// Heading is a "#", "##" or "###" line.
type Heading struct {
	Level   int // 1, 2 or 3
	Content string
}

// Paragraph is a free text line split into formatting spans.
type Paragraph struct {
	Spans []Span
}

// ListKind tells bulleted and numbered lists apart.
type ListKind int

const (
	Bulleted ListKind = iota
	Numbered
)

func (k ListKind) String() string {
	if k == Numbered {
		return "Numbered"
	}
	return "Bulleted"
}

// List is a maximal run of consecutive lines sharing one marker syntax.
type List struct {
	Type  ListKind
	Items []string
}

// Link is a single link or image line.
type Link struct {
	Alt     string
	URL     string
	IsImage bool
}

// CodeBlock is the region between two fence lines. Content excludes both
// fences and ends with the newline of its last line.
type CodeBlock struct {
	Language string
	Content  string
}

// HorizontalRule is a line beginning with "---".
type HorizontalRule struct{}

func (Heading) Kind() NodeKind        { return KindHeading }
func (Paragraph) Kind() NodeKind      { return KindParagraph }
func (List) Kind() NodeKind           { return KindList }
func (Link) Kind() NodeKind           { return KindLink }
func (CodeBlock) Kind() NodeKind      { return KindCodeBlock }
func (HorizontalRule) Kind() NodeKind { return KindHorizontalRule }

func (Heading) node()        {}
func (Paragraph) node()      {}
func (List) node()           {}
func (Link) node()           {}
func (CodeBlock) node()      {}
func (HorizontalRule) node() {}

// Variant is the inline formatting carried by a span. It doubles as the
// state of the inline scanner.
type Variant int

const (
	Normal Variant = iota
	Italic
	Bold
	InlineCode
)

var variantNames = [...]string{
	Normal:     "Normal",
	Italic:     "Italic",
	Bold:       "Bold",
	InlineCode: "InlineCode",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "Unknown"
	}
	return variantNames[v]
}

// Span is a contiguous run of paragraph text with one formatting variant.
type Span struct {
	Content string
	Variant Variant
}
