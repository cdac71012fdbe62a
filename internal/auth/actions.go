package auth

// Action is an operation a principal may perform on a resource type.
type Action string

const (
	// ActionView reads resources.
	ActionView Action = "view"
	// ActionCreate adds resources.
	ActionCreate Action = "create"
	// ActionEdit changes resources.
	ActionEdit Action = "edit"
	// ActionDelete removes resources.
	ActionDelete Action = "delete"
)

// Actions returns every defined action.
func Actions() []Action {
	return []Action{ActionView, ActionCreate, ActionEdit, ActionDelete}
}

// Valid reports whether a is a defined action.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return true
	}

	return false
}

// Codename is the Grant codename for a, e.g. "can_edit".
func (a Action) Codename() string {
	return "can_" + string(a)
}

// ResourceType is a kind of resource protected by grants.
type ResourceType string

const (
	// ResourceBook protects books and their comments.
	ResourceBook ResourceType = "book"
	// ResourceAuthor protects authors.
	ResourceAuthor ResourceType = "author"
	// ResourceLibrary protects libraries and librarians.
	ResourceLibrary ResourceType = "library"
)

// ResourceTypes returns every defined resource type.
func ResourceTypes() []ResourceType {
	return []ResourceType{ResourceBook, ResourceAuthor, ResourceLibrary}
}

// Valid reports whether r is a defined resource type.
func (r ResourceType) Valid() bool {
	switch r {
	case ResourceBook, ResourceAuthor, ResourceLibrary:
		return true
	}

	return false
}
