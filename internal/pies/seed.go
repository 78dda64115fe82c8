package pies

import (
	"context"
	"errors"
	"fmt"

	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/model"
	"github.com/weibaohui/piepress/internal/pkg/sanitize"
	"github.com/weibaohui/piepress/internal/service"
	"k8s.io/klog/v2"
)

type seedPie struct {
	Title       string
	PieType     string
	Description string
	Ingredients string
}

var initialPies = []seedPie{
	{
		Title:       "Apple Pie",
		PieType:     "Fruit Pie",
		Description: "A classic dessert made with a flaky crust filled with sweet, spiced apples.",
		Ingredients: "Apples, Sugar, Cinnamon, Nutmeg, Butter, Flour, Lemon Juice",
	},
	{
		Title:       "Pumpkin Pie",
		PieType:     "Custard Pie",
		Description: "A smooth and creamy pie made with spiced pumpkin filling, perfect for autumn.",
		Ingredients: "Pumpkin Puree, Eggs, Sugar, Cinnamon, Ginger, Nutmeg, Evaporated Milk, Pie Crust",
	},
	{
		Title:       "Cherry Pie",
		PieType:     "Fruit Pie",
		Description: "A delicious pie filled with tart cherries and sweetened with sugar, encased in a golden crust.",
		Ingredients: "Cherries, Sugar, Cornstarch, Lemon Juice, Almond Extract, Butter, Pie Crust",
	},
	{
		Title:       "Pecan Pie",
		PieType:     "Nut Pie",
		Description: "A rich and buttery pie with a filling made of toasted pecans and a sweet, gooey custard.",
		Ingredients: "Pecans, Eggs, Corn Syrup, Sugar, Butter, Vanilla Extract, Pie Crust",
	},
	{
		Title:       "Blueberry Pie",
		PieType:     "Fruit Pie",
		Description: "A juicy pie filled with fresh blueberries, sweetened and thickened to create a perfect summer treat.",
		Ingredients: "Blueberries, Sugar, Lemon Juice, Cornstarch, Butter, Pie Crust",
	},
	{
		Title:       "Key Lime Pie",
		PieType:     "Citrus Pie",
		Description: "A tart and tangy pie made with key lime juice and a creamy filling, topped with whipped cream.",
		Ingredients: "Key Lime Juice, Sweetened Condensed Milk, Egg Yolks, Graham Cracker Crust, Whipped Cream",
	},
	{
		Title:       "Banoffee Pie",
		PieType:     "Cream Pie",
		Description: "A rich and indulgent pie made with layers of bananas, toffee, and whipped cream on a biscuit base.",
		Ingredients: "Bananas, Toffee (Caramel), Whipped Cream, Digestive Biscuits, Butter, Chocolate Shavings",
	},
	{
		Title:       "Sweet Potato Pie",
		PieType:     "Custard Pie",
		Description: "A Southern favorite, this pie is made with mashed sweet potatoes, spiced and baked to perfection.",
		Ingredients: "Sweet Potatoes, Eggs, Sugar, Butter, Cinnamon, Nutmeg, Evaporated Milk, Pie Crust",
	},
	{
		Title:       "Lemon Meringue Pie",
		PieType:     "Citrus Pie",
		Description: "A zesty lemon filling topped with a fluffy, toasted meringue on a crisp pie crust.",
		Ingredients: "Lemon Juice, Lemon Zest, Sugar, Egg Yolks, Cornstarch, Butter, Meringue, Pie Crust",
	},
	{
		Title:       "Mince Pie",
		PieType:     "Fruit & Spice Pie",
		Description: "A traditional British pie filled with a mixture of dried fruits, spices, and brandy, often enjoyed during the holidays.",
		Ingredients: "Mince Meat (Dried Fruits, Spices, Suet), Brandy, Sugar, Pie Crust",
	},
}

// SeedInitialPies 写入十条预置的 pies。各条互不依赖，单条失败不影响其余条目，
// 错误合并返回。重复执行会生成带序号 slug 的新条目。
func (r *Registrar) SeedInitialPies(ctx context.Context, posts *service.PostService, p *domain.Principal) error {
	var errs []error
	created := 0
	for _, pie := range initialPies {
		post, err := posts.Save(ctx, service.SavePostRequest{
			Type:      PostType,
			Title:     sanitize.StripTags(pie.Title),
			Status:    model.PostStatusPublish,
			Principal: p,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("seed %q: %w", pie.Title, err))
			continue
		}

		for key, value := range map[string]string{
			MetaPieType:     pie.PieType,
			MetaDescription: pie.Description,
			MetaIngredients: pie.Ingredients,
		} {
			if err := r.metaRepo.Upsert(ctx, post.ID, key, value); err != nil {
				errs = append(errs, fmt.Errorf("seed %q %s: %w", pie.Title, key, err))
			}
		}
		created++
	}

	klog.V(6).Infof("seeded %d/%d pies", created, len(initialPies))
	return errors.Join(errs...)
}
