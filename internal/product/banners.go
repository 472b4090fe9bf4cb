package product

import "storefront-web/internal/model"

// Shown when the remote API has no active banner of a type.
var (
	defaultHeroBanners = []model.Banner{
		{Image: "img/banner_home1.png", Link: "/products"},
		{Image: "img/banner_home2.png", Link: "/products"},
	}

	defaultSideBanner = model.Banner{Image: "img/banner_home3.png", Link: "/products"}

	defaultPromoBanners = []model.Banner{
		{Title: "Super Offres", Subtitle: "Achetez Maintenant", DiscountPercent: 70, ButtonText: "Profitez", Image: "img/banner3_1.png", Link: "/products"},
		{Title: "Super Offres", Subtitle: "Découvrir", DiscountPercent: 50, ButtonText: "Profitez", Image: "img/banner3_2.png", Link: "/products"},
		{Title: "Ventes Flash", Subtitle: "Top Choix", DiscountPercent: 40, ButtonText: "Profitez", Image: "img/banner3_3.png", Link: "/products"},
		{Title: "Ventes Flash", Subtitle: "Temps Limité", DiscountPercent: 60, ButtonText: "Profitez", Image: "img/banner3_4.png", Link: "/products"},
	}

	defaultCategoryBanners = []model.Banner{
		{Image: "img/banner_box4.jpg", Link: "/products", Position: 0},
		{Image: "img/banner_box5.jpg", Link: "/products", Position: 1},
		{Image: "img/banner_box1.jpg", Link: "/products", Position: 2},
		{Image: "img/banner_box2.jpg", Link: "/products", Position: 3},
		{Image: "img/banner_box3.jpg", Link: "/products", Position: 4},
	}
)
