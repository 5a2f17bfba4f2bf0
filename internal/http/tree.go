package http

import "github.com/goliatone/go-recipes/internal/view"

// viewNode is the JSON shape of GET /api/view. Lists report their entries
// followed by the trailing add control, in render order.
type viewNode struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Role     string     `json:"role,omitempty"`
	Label    string     `json:"label,omitempty"`
	Value    *string    `json:"value,omitempty"`
	Required bool       `json:"required,omitempty"`
	Control  string     `json:"control,omitempty"`
	Children []viewNode `json:"children,omitempty"`
}

func describeRecipe(root *view.RecipeView) viewNode {
	node := viewNode{ID: string(root.ID()), Kind: "recipe"}
	if root.Name != nil {
		node.Children = append(node.Children, describeField(root.Name))
	}
	if root.Sections != nil {
		node.Children = append(node.Children, describeList(root.Sections, describeSection))
	}
	for _, control := range []*view.Control{root.Submit, root.Export} {
		if control != nil {
			node.Children = append(node.Children, describeControl(control))
		}
	}
	return node
}

func describeSection(section *view.SectionView) viewNode {
	node := viewNode{ID: string(section.ID()), Kind: "section", Label: section.Legend}
	if section.Name != nil {
		node.Children = append(node.Children, describeField(section.Name))
	}
	for _, list := range []*view.FieldList{section.Ingredients, section.Steps} {
		if list != nil {
			node.Children = append(node.Children, describeList(list, describeField))
		}
	}
	return node
}

func describeList[T view.Item](list *view.List[T], item func(T) viewNode) viewNode {
	node := viewNode{ID: string(list.ID()), Kind: "list", Label: list.Legend}
	for _, entry := range list.Entries() {
		child := viewNode{ID: string(entry.ID()), Kind: "entry"}
		child.Children = append(child.Children, item(entry.Item))
		if entry.Remove != nil {
			child.Children = append(child.Children, describeControl(entry.Remove))
		}
		node.Children = append(node.Children, child)
	}
	if list.Add != nil {
		node.Children = append(node.Children, describeControl(list.Add))
	}
	return node
}

func describeField(field *view.Field) viewNode {
	value := field.Value()
	return viewNode{
		ID:       string(field.ID()),
		Kind:     "field",
		Role:     string(field.Role()),
		Label:    field.Label(),
		Value:    &value,
		Required: field.Required(),
	}
}

func describeControl(control *view.Control) viewNode {
	return viewNode{
		ID:      string(control.ID()),
		Kind:    "control",
		Label:   control.Label(),
		Control: string(control.Kind()),
	}
}
