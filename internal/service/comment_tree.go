package service

import "folio/internal/models"

// CommentNode is a comment with the replies that point at it.
type CommentNode struct {
	Comment *models.Comment `json:"comment"`
	Replies []*CommentNode  `json:"replies"`
}

// BuildCommentTree nests replies under their parents. Sibling order follows
// the input order. A reply whose parent is absent from comments, or whose
// ancestry loops back on itself, is promoted to a root.
func BuildCommentTree(comments []*models.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &CommentNode{Comment: c, Replies: []*CommentNode{}}
	}

	roots := []*CommentNode{}
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID == nil || inCycle(c, nodes) {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}
	return roots
}

// inCycle reports whether following parent links from c leads back to c.
func inCycle(c *models.Comment, nodes map[uint]*CommentNode) bool {
	seen := map[uint]bool{}
	for cur := c; cur.ParentID != nil; {
		if *cur.ParentID == c.ID {
			return true
		}
		if seen[*cur.ParentID] {
			return false
		}
		seen[*cur.ParentID] = true
		next, ok := nodes[*cur.ParentID]
		if !ok {
			return false
		}
		cur = next.Comment
	}
	return false
}
