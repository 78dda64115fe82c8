package pies

import "github.com/weibaohui/piepress/internal/cms"

// PostTypeDefinition pies 内容类型声明
func PostTypeDefinition() cms.PostType {
	return cms.PostType{
		Name: PostType,
		Labels: cms.Labels{
			Name:            "Pies",
			SingularName:    "Pie",
			MenuName:        "Pies",
			NameAdminBar:    "Pie",
			AddNew:          "Add New",
			AddNewItem:      "Add New Pie",
			NewItem:         "New Pie",
			EditItem:        "Edit Pie",
			ViewItem:        "View Pie",
			AllItems:        "All Pies",
			SearchItems:     "Search Pies",
			NotFound:        "No pies found.",
			NotFoundInTrash: "No pies found in Trash.",
		},
		Public:            true,
		PubliclyQueryable: true,
		ShowUI:            true,
		ShowInMenu:        true,
		HasArchive:        true,
		Hierarchical:      false,
		RewriteSlug:       "pies",
		Supports:          []string{"title", "editor"},
	}
}
