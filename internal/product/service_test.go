package product

import (
	"context"
	"errors"
	"testing"

	"storefront-web/internal/api"
	"storefront-web/internal/model"
	"storefront-web/internal/recent"
	"storefront-web/internal/storage"
	"storefront-web/internal/visitor"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Products(ctx context.Context) api.ProductsResult {
	return m.Called(ctx).Get(0).(api.ProductsResult)
}

func (m *MockCatalog) Product(ctx context.Context, productID string) api.ProductResult {
	return m.Called(ctx, productID).Get(0).(api.ProductResult)
}

func (m *MockCatalog) ProductsByCategory(ctx context.Context, category, subCategory string, page, limit int) api.ProductsResult {
	return m.Called(ctx, category, subCategory, page, limit).Get(0).(api.ProductsResult)
}

func (m *MockCatalog) SearchProducts(ctx context.Context, q api.SearchQuery) api.ProductsResult {
	return m.Called(ctx, q).Get(0).(api.ProductsResult)
}

func (m *MockCatalog) Categories(ctx context.Context) api.CategoriesResult {
	return m.Called(ctx).Get(0).(api.CategoriesResult)
}

func (m *MockCatalog) Banners(ctx context.Context, bannerType string) api.BannersResult {
	return m.Called(ctx, bannerType).Get(0).(api.BannersResult)
}

func (m *MockCatalog) IncrementViews(ctx context.Context, productID string) api.Result {
	return m.Called(ctx, productID).Get(0).(api.Result)
}

func (m *MockCatalog) ProductReviews(ctx context.Context, productID string, page, limit int) api.ReviewsResult {
	return m.Called(ctx, productID, page, limit).Get(0).(api.ReviewsResult)
}

func (m *MockCatalog) AddReview(ctx context.Context, productID string, rating int, comment string) api.ReviewResult {
	return m.Called(ctx, productID, rating, comment).Get(0).(api.ReviewResult)
}

func (m *MockCatalog) CanReview(ctx context.Context, productID string) api.CanReviewResult {
	return m.Called(ctx, productID).Get(0).(api.CanReviewResult)
}

type fakeSession bool

func (s fakeSession) IsLoggedIn(context.Context) bool { return bool(s) }

var (
	okEnv   = api.Envelope{Success: true}
	failEnv = api.Envelope{Success: false, Message: "boom"}
)

func priced(id, category string, price, old int64) model.Product {
	p := model.Product{ID: id, Name: id, Category: category, Price: decimal.NewFromInt(price)}
	if old > 0 {
		p.OldPrice = decimal.NewFromInt(old)
	}
	return p
}

func productIDs(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func newService(catalog Catalog, loggedIn bool) (*Service, *recent.Viewed, context.Context) {
	viewed := recent.New(storage.NewBucket(storage.NewMemoryStore(), "local"), "reda_recent")
	return NewService(catalog, fakeSession(loggedIn), viewed, nil, "Electro Youssef"),
		viewed, visitor.WithID(context.Background(), "v1")
}

func TestHotDeals(t *testing.T) {
	t.Run("Discounted only", func(t *testing.T) {
		products := []model.Product{priced("a", "", 100, 0), priced("b", "", 80, 120), priced("c", "", 50, 50)}
		assert.Equal(t, []string{"b"}, productIDs(HotDeals(products, 12)))
	})

	t.Run("Falls back to first products", func(t *testing.T) {
		var products []model.Product
		for _, id := range []string{"a", "b", "c"} {
			products = append(products, priced(id, "", 10, 0))
		}
		assert.Equal(t, []string{"a", "b"}, productIDs(HotDeals(products, 2)))
	})
}

func TestSections(t *testing.T) {
	products := []model.Product{
		priced("p1", "TV", 1, 0),
		priced("p2", "Phones", 1, 0),
		priced("p3", "TV", 1, 0),
		priced("p4", "Audio", 1, 0),
	}

	t.Run("Ordered by categories", func(t *testing.T) {
		cats := []model.Category{{Name: "Phones"}, {Name: "Empty"}, {Name: "TV"}}
		sections := Sections(cats, products)

		require.Len(t, sections, 2)
		assert.Equal(t, "Phones", sections[0].Category)
		assert.Equal(t, "TV", sections[1].Category)
		assert.Equal(t, []string{"p1", "p3"}, productIDs(sections[1].Products))
	})

	t.Run("Falls back to product categories", func(t *testing.T) {
		sections := Sections(nil, products)

		require.Len(t, sections, 3)
		assert.Equal(t, "TV", sections[0].Category)
		assert.Equal(t, "Phones", sections[1].Category)
		assert.Equal(t, "Audio", sections[2].Category)
	})
}

func TestService_Home(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc, _, ctx := newService(catalog, false)

		var cats []model.Category
		for _, name := range []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8"} {
			cats = append(cats, model.Category{Name: name, Type: model.CategoryTypeCategory})
		}
		cats = append(cats, model.Category{Name: "brand", Type: "brand"})

		catalog.On("Categories", ctx).Return(api.CategoriesResult{Envelope: okEnv, Categories: cats})
		catalog.On("Products", ctx).Return(api.ProductsResult{Envelope: okEnv, Products: []model.Product{
			priced("p1", "c2", 100, 150),
			priced("p2", "c1", 100, 0),
		}})
		catalog.On("Banners", ctx, "hero").Return(api.BannersResult{Envelope: okEnv, Banners: []model.Banner{{Title: "Live", Image: "hero.png"}}})
		catalog.On("Banners", ctx, "side").Return(api.BannersResult{Envelope: failEnv})
		catalog.On("Banners", ctx, "promo").Return(api.BannersResult{Envelope: okEnv})
		catalog.On("Banners", ctx, "category").Return(api.BannersResult{Envelope: okEnv, Banners: []model.Banner{
			{Image: "second.jpg", Position: 2},
			{Image: "first.jpg", Position: 1},
		}})

		home := svc.Home(ctx)

		assert.Len(t, home.Categories, 8)
		assert.Len(t, home.NavCategories, 7)
		assert.Len(t, home.FooterCategories, 5)
		assert.Equal(t, []string{"p1"}, productIDs(home.HotDeals))
		require.Len(t, home.Sections, 2)
		assert.Equal(t, "c1", home.Sections[0].Category)

		require.Len(t, home.Hero, 1)
		assert.Equal(t, "Live", home.Hero[0].Title)
		assert.Equal(t, "img/banner_home3.png", home.Side.Image)
		require.Len(t, home.Promo, 4)
		assert.Equal(t, 70, home.Promo[0].DiscountPercent)
		assert.Equal(t, "first.jpg", home.CategoryBanners[0].Image)

		catalog.AssertExpectations(t)
	})

	t.Run("Remote down", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc, _, ctx := newService(catalog, false)

		catalog.On("Categories", ctx).Return(api.CategoriesResult{Envelope: failEnv})
		catalog.On("Products", ctx).Return(api.ProductsResult{Envelope: failEnv})
		catalog.On("Banners", ctx, mock.Anything).Return(api.BannersResult{Envelope: failEnv})

		home := svc.Home(ctx)

		assert.Empty(t, home.Categories)
		assert.Empty(t, home.HotDeals)
		assert.Empty(t, home.Sections)
		assert.Len(t, home.Hero, 2)
		assert.Len(t, home.CategoryBanners, 5)
		assert.Equal(t, "img/banner_box4.jpg", home.CategoryBanners[0].Image)
	})
}

func TestService_Search(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc, _, ctx := newService(catalog, false)

		f := Filter{Query: "tv", Page: 2, Limit: 12, SortBy: DefaultSort}
		catalog.On("Categories", ctx).Return(api.CategoriesResult{Envelope: okEnv})
		catalog.On("SearchProducts", ctx, f.SearchQuery()).Return(api.ProductsResult{
			Envelope:   okEnv,
			Products:   []model.Product{priced("p1", "TV", 10, 0)},
			Pagination: &model.Pagination{Page: 2, Pages: 4, Total: 40},
		})

		listing, err := svc.Search(ctx, f)

		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, productIDs(listing.Products))
		assert.Equal(t, model.Pagination{Page: 2, Pages: 4, Total: 40, Limit: 12}, listing.Pagination)
	})

	t.Run("Error", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc, _, ctx := newService(catalog, false)

		catalog.On("Categories", ctx).Return(api.CategoriesResult{Envelope: okEnv})
		catalog.On("SearchProducts", ctx, mock.Anything).Return(api.ProductsResult{Envelope: failEnv})

		listing, err := svc.Search(ctx, Filter{})

		require.Error(t, err)
		assert.Equal(t, "boom", err.Error())
		assert.NotNil(t, listing.Products)
		assert.Empty(t, listing.Products)
		assert.Equal(t, 1, listing.Pagination.Page)
	})
}

func TestService_Detail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc, viewed, ctx := newService(catalog, true)
		require.NoError(t, viewed.Record(ctx, model.Product{ID: "older"}))

		p := priced("p1", "TV", 900, 1000)
		p.ReviewCount = 3
		p.Stock = 2

		catalog.On("Product", ctx, "p1").Return(api.ProductResult{Envelope: okEnv, Product: &p})
		catalog.On("IncrementViews", ctx, "p1").Return(api.Result{Envelope: failEnv})
		catalog.On("ProductReviews", ctx, "p1", 1, ReviewPageSize).Return(api.ReviewsResult{
			Envelope:     okEnv,
			Reviews:      []model.Review{{ID: "r1", Rating: 5}, {ID: "r2", Rating: 4}},
			Distribution: map[int]int{5: 2, 4: 1, 9: 7},
		})
		catalog.On("CanReview", ctx, "p1").Return(api.CanReviewResult{Envelope: okEnv, CanReview: true})
		catalog.On("ProductsByCategory", ctx, "TV", "", 1, SectionProductLimit).Return(api.ProductsResult{
			Envelope: okEnv,
			Products: []model.Product{priced("p1", "TV", 1, 0), priced("p2", "TV", 1, 0)},
		})

		d, err := svc.Detail(ctx, "p1")

		require.NoError(t, err)
		assert.Equal(t, "p1", d.Product.ID)
		assert.Equal(t, []string{"p2"}, productIDs(d.Related))
		assert.Equal(t, []string{"older"}, productIDs(d.RecentlyViewed))
		assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 2}, d.Distribution)
		assert.Equal(t, 3, d.ReviewTotal)
		assert.True(t, d.CanReview)
		assert.Equal(t, []string{"p1", "older"}, productIDs(viewed.List(ctx)))
		catalog.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc, _, ctx := newService(catalog, false)
		catalog.On("Product", ctx, "nope").Return(api.ProductResult{Envelope: failEnv})

		_, err := svc.Detail(ctx, "nope")

		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Missing id", func(t *testing.T) {
		svc, _, ctx := newService(new(MockCatalog), false)

		_, err := svc.Detail(ctx, "")

		assert.ErrorIs(t, err, ErrMissingID)
	})
}

func TestService_Specs(t *testing.T) {
	svc, _, _ := newService(new(MockCatalog), false)

	t.Run("Product specifications", func(t *testing.T) {
		p := model.Product{Specs: []model.Spec{{Name: "Écran", Value: "6.1\""}, {Name: "", Value: "x"}}}
		assert.Equal(t, []Spec{{Label: "Écran", Value: "6.1\""}}, svc.Specs(p))
	})

	t.Run("Default sheet", func(t *testing.T) {
		p := model.Product{ID: "65a1b2c3d4e5f6", Category: "TV", SubCategory: "OLED"}
		specs := svc.Specs(p)

		require.Len(t, specs, 7)
		assert.Equal(t, Spec{Label: "Catégorie", Value: "TV"}, specs[0])
		assert.Equal(t, Spec{Label: "Sous-catégorie", Value: "OLED"}, specs[1])
		assert.Equal(t, Spec{Label: "Marque", Value: "Electro Youssef"}, specs[2])
		assert.Equal(t, Spec{Label: "Référence", Value: "EY-D4E5F6"}, specs[3])
		assert.Equal(t, Spec{Label: "Disponibilité", Value: "Rupture de stock"}, specs[4])
	})

	t.Run("Without category", func(t *testing.T) {
		specs := svc.Specs(model.Product{SKU: "SKU-1", Brand: "LG", Stock: 1})

		require.Len(t, specs, 6)
		assert.Equal(t, "N/A", specs[0].Value)
		assert.Equal(t, "LG", specs[1].Value)
		assert.Equal(t, "SKU-1", specs[2].Value)
		assert.Equal(t, "En stock", specs[3].Value)
	})
}

func TestService_SubmitReview(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc, _, ctx := newService(catalog, true)
		catalog.On("AddReview", ctx, "p1", 5, "Très bon produit").Return(api.ReviewResult{Envelope: okEnv})

		err := svc.SubmitReview(ctx, "p1", 5, "  Très bon produit  ")

		require.NoError(t, err)
		catalog.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		catalog := new(MockCatalog)
		anon, _, ctx := newService(catalog, false)
		svc, _, _ := newService(catalog, true)

		assert.ErrorIs(t, anon.SubmitReview(ctx, "p1", 5, "Très bon produit"), ErrNotAuthenticated)
		assert.ErrorIs(t, svc.SubmitReview(ctx, "p1", 0, "Très bon produit"), ErrRatingRequired)
		assert.ErrorIs(t, svc.SubmitReview(ctx, "p1", 6, "Très bon produit"), ErrRatingRequired)
		assert.ErrorIs(t, svc.SubmitReview(ctx, "p1", 4, "   court   "), ErrCommentTooShort)
		catalog.AssertNotCalled(t, "AddReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc, _, ctx := newService(catalog, true)
		catalog.On("AddReview", ctx, "p1", 3, "Assez correct dans l'ensemble").
			Return(api.ReviewResult{Envelope: api.Envelope{Success: false}})

		err := svc.SubmitReview(ctx, "p1", 3, "Assez correct dans l'ensemble")

		var apiErr *api.Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Erreur lors de l'envoi de l'avis", apiErr.Message)
	})
}
