package pies

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/eventbus"
	"github.com/weibaohui/piepress/internal/model"
)

var metaBoxTmpl = template.Must(template.New("pie_details").Parse(
	`<input type="hidden" id="{{.NonceField}}" name="{{.NonceField}}" value="{{.Nonce}}" />` +
		`<label for="pie_type">Pie Type:</label>` +
		`<input type="text" id="pie_type" name="pie_type" value="{{.PieType}}" size="25" />` +
		`<br><br><label for="description">Description:</label>` +
		`<textarea id="description" name="description" rows="3" cols="50">{{.Description}}</textarea>` +
		`<br><br><label for="ingredients">Ingredients:</label>` +
		`<textarea id="ingredients" name="ingredients" rows="5" cols="50">{{.Ingredients}}</textarea>`))

type metaBoxData struct {
	NonceField  string
	Nonce       string
	PieType     string
	Description string
	Ingredients string
}

func (r *Registrar) onAddMetaBoxes(ctx context.Context, _ eventbus.AdminEvent) error {
	r.host.MetaBoxes.Add(cms.MetaBox{
		ID:       MetaBoxID,
		Title:    "Pie Details",
		PostType: PostType,
		Context:  cms.MetaBoxNormal,
		Priority: cms.MetaBoxHigh,
		Render:   r.renderPieMetaBox,
	})
	return nil
}

// renderPieMetaBox 编辑面板，未保存过的属性显示为空
func (r *Registrar) renderPieMetaBox(ctx context.Context, w io.Writer, post *model.Post, principal *domain.Principal) error {
	token, err := r.nonces.Create(NonceAction, principal.Name())
	if err != nil {
		return err
	}

	values := map[string]string{}
	if post.ID > 0 {
		values, err = r.metaRepo.GetAll(ctx, post.ID)
		if err != nil {
			return fmt.Errorf("load pie meta: %w", err)
		}
	}

	return metaBoxTmpl.Execute(w, metaBoxData{
		NonceField:  NonceField,
		Nonce:       token,
		PieType:     values[MetaPieType],
		Description: values[MetaDescription],
		Ingredients: values[MetaIngredients],
	})
}
