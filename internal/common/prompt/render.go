package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotSequence = errors.New("NOT_SEQUENCE")

type node interface {
	render(b *strings.Builder, s *scope) error
}

type textNode string

type fieldNode string

type ifNode struct {
	path      string
	then      []node
	otherwise []node
}

type eachNode struct {
	path string
	body []node
}

func renderNodes(b *strings.Builder, nodes []node, s *scope) error {
	for _, n := range nodes {
		if err := n.render(b, s); err != nil {
			return err
		}
	}
	return nil
}

func (n textNode) render(b *strings.Builder, _ *scope) error {
	b.WriteString(string(n))
	return nil
}

func (n fieldNode) render(b *strings.Builder, s *scope) error {
	path := string(n)
	v, ok := s.resolve(path)
	if !ok || v == nil {
		return &MissingFieldError{Fields: []string{path}}
	}
	str, ok := scalarString(v)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotScalar, path)
	}
	b.WriteString(str)
	return nil
}

func (n *ifNode) render(b *strings.Builder, s *scope) error {
	v, ok := s.resolve(n.path)
	if ok && truthy(v) {
		return renderNodes(b, n.then, s)
	}
	return renderNodes(b, n.otherwise, s)
}

func (n *eachNode) render(b *strings.Builder, s *scope) error {
	v, ok := s.resolve(n.path)
	if !ok || v == nil {
		return nil
	}
	items, ok := sequence(v)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSequence, n.path)
	}
	for i, item := range items {
		s.push(frame{value: item, index: i, element: true})
		err := renderNodes(b, n.body, s)
		s.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

type frame struct {
	value   interface{}
	index   int
	element bool
}

// scope is the stack of values visible to a node, innermost last.
type scope struct {
	frames []frame
}

func (s *scope) push(f frame) { s.frames = append(s.frames, f) }

func (s *scope) pop() { s.frames = s.frames[:len(s.frames)-1] }

func (s *scope) innermost() frame { return s.frames[len(s.frames)-1] }

func (s *scope) resolve(path string) (interface{}, bool) {
	switch {
	case path == "this":
		return s.innermost().value, true
	case path == "@index" || path == "@number":
		f := s.innermost()
		if !f.element {
			return nil, false
		}
		if path == "@number" {
			return f.index + 1, true
		}
		return f.index, true
	case strings.HasPrefix(path, "this."):
		return lookup(s.innermost().value, splitPath(strings.TrimPrefix(path, "this.")))
	}

	segs := splitPath(path)
	for i := len(s.frames) - 1; i >= 0; i-- {
		m, ok := s.frames[i].value.(map[string]interface{})
		if !ok {
			continue
		}
		if _, has := m[segs[0]]; has {
			return lookup(m, segs)
		}
	}
	return nil, false
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

func lookup(v interface{}, segs []string) (interface{}, bool) {
	cur := v
	for _, seg := range segs {
		switch node := cur.(type) {
		case map[string]interface{}:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []interface{}:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func sequence(v interface{}) ([]interface{}, bool) {
	switch x := v.(type) {
	case []interface{}:
		return x, true
	case []string:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, true
	case []map[string]interface{}:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, true
	}
	return nil, false
}

func scalarString(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case json.Number:
		return x.String(), true
	}
	return "", false
}

// truthy: non-empty strings and sequences, true, non-null objects and non-zero numbers.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case []interface{}:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case []map[string]interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return x != nil
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	}
	return true
}
