package pies

import (
	"context"
	"errors"
	"fmt"

	"github.com/weibaohui/piepress/internal/eventbus"
	"github.com/weibaohui/piepress/internal/pkg/sanitize"
	"k8s.io/klog/v2"
)

type metaField struct {
	form     string
	key      string
	sanitize func(string) string
}

var metaFields = []metaField{
	{form: FieldPieType, key: MetaPieType, sanitize: sanitize.TextField},
	{form: FieldDescription, key: MetaDescription, sanitize: sanitize.TextareaField},
	{form: FieldIngredients, key: MetaIngredients, sanitize: sanitize.TextareaField},
}

// savePieMeta 依次检查防伪令牌、自动保存、编辑权限，任一不满足即静默返回，不写任何属性
func (r *Registrar) savePieMeta(ctx context.Context, event eventbus.PostEvent) error {
	post := event.Post
	if post == nil {
		return nil
	}

	ticket, err := r.nonces.Verify(event.Form.Get(NonceField), NonceAction, event.Principal.Name())
	if err != nil {
		klog.V(6).Infof("skip pie meta for post %d: %v", post.ID, err)
		return nil
	}

	if event.Autosave {
		klog.V(6).Infof("skip pie meta for post %d: autosave", post.ID)
		return nil
	}

	if post.Type == PostType && !event.Principal.CanEditPost(post.Author) {
		klog.V(6).Infof("skip pie meta for post %d: %s cannot edit", post.ID, event.Principal.Name())
		return nil
	}

	if err := r.nonces.Consume(ticket); err != nil {
		klog.V(6).Infof("skip pie meta for post %d: nonce already used", post.ID)
		return nil
	}

	var errs []error
	for _, f := range metaFields {
		values, ok := event.Form[f.form]
		if !ok || len(values) == 0 {
			continue
		}
		if err := r.metaRepo.Upsert(ctx, post.ID, f.key, f.sanitize(values[0])); err != nil {
			errs = append(errs, fmt.Errorf("update %s: %w", f.key, err))
		}
	}
	return errors.Join(errs...)
}
