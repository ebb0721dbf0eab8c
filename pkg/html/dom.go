package html

import "strings"

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// documentTag names the synthetic root every parsed document hangs off.
const documentTag = "document"

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type Document struct {
	Root        *Node
	Stylesheets []string // CSS in document order; linked sheets start empty
	Links       []StylesheetLink
	Scripts     []string // JavaScript from <script> tags
}

// StylesheetLink is a <link rel="stylesheet"> whose contents belong at
// Stylesheets[Slot] once fetched.
type StylesheetLink struct {
	Href string
	Slot int
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  documentTag,
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// NewElement returns a detached element node.
func NewElement(tag string, attrs map[string]string) *Node {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: attrs,
		Children:   make([]*Node, 0),
	}
}

// NewText returns a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// IsDocumentRoot reports whether n is the synthetic root of a Document.
func (n *Node) IsDocumentRoot() bool {
	return n != nil && n.Type == ElementNode && n.TagName == documentTag && n.Parent == nil
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// ID returns the id attribute, or "".
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// HasClass reports whether the class attribute lists cls.
func (n *Node) HasClass(cls string) bool {
	classes, ok := n.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(classes) {
		if c == cls {
			return true
		}
	}
	return false
}

// AddChild appends child, detaching it from any previous parent. It returns
// nil and leaves the tree unchanged when child is n or one of n's
// ancestors, since that would make n its own ancestor.
func (n *Node) AddChild(child *Node) *Node {
	if child.Contains(n) {
		return nil
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) *Node {
	if text == "" {
		return nil
	}
	return n.AddChild(NewText(text))
}

// RemoveChild removes child from n and clears its parent pointer.
// Returns nil if child is not one of n's children.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// NextSibling returns the node following n in its parent's children.
func (n *Node) NextSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	siblings := n.Parent.Children
	for i, c := range siblings {
		if c == n {
			if i+1 < len(siblings) {
				return siblings[i+1]
			}
			return nil
		}
	}
	return nil
}

// ParentElement returns the parent when it is a real element. The synthetic
// document root does not count.
func (n *Node) ParentElement() *Node {
	p := n.Parent
	if p == nil || p.Type != ElementNode || p.IsDocumentRoot() {
		return nil
	}
	return p
}

// IsConnected reports whether n hangs off a document root.
func (n *Node) IsConnected() bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.IsDocumentRoot() {
			return true
		}
	}
	return false
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// TextContent concatenates every descendant text node in document order.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	n.Walk(func(d *Node) bool {
		if d.Type == TextNode {
			sb.WriteString(d.Text)
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	if n.Type == TextNode {
		n.Text = text
		return
	}
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = make([]*Node, 0)
	n.AppendText(text)
}

// Walk visits n and its descendants in document order. Returning false
// from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// GetElementByID returns the first descendant element with the given id.
func (n *Node) GetElementByID(id string) *Node {
	var found *Node
	n.Walk(func(d *Node) bool {
		if d.Type == ElementNode && d.ID() == id && !d.IsDocumentRoot() {
			found = d
			return false
		}
		return true
	})
	return found
}

// GetElementsByTagName collects descendant elements with the given tag, in
// document order. "*" matches every element.
func (n *Node) GetElementsByTagName(tag string) []*Node {
	tag = strings.ToLower(tag)
	return n.collect(func(d *Node) bool {
		return tag == "*" || d.TagName == tag
	})
}

// GetElementsByClassName collects descendant elements carrying cls.
func (n *Node) GetElementsByClassName(cls string) []*Node {
	return n.collect(func(d *Node) bool { return d.HasClass(cls) })
}

func (n *Node) collect(match func(*Node) bool) []*Node {
	var result []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if d.Type == ElementNode && match(d) {
				result = append(result, d)
			}
			return true
		})
	}
	return result
}

// Body returns the <body> element, falling back to the document root.
func (d *Document) Body() *Node {
	if bodies := d.Root.GetElementsByTagName("body"); len(bodies) > 0 {
		return bodies[0]
	}
	return d.Root
}
