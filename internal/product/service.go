package product

import (
	"context"
	"sort"
	"strings"

	"storefront-web/internal/api"
	"storefront-web/internal/logger"
	"storefront-web/internal/metrics"
	"storefront-web/internal/model"
	"storefront-web/internal/recent"

	"go.uber.org/zap"
)

type Catalog interface {
	Products(ctx context.Context) api.ProductsResult
	Product(ctx context.Context, productID string) api.ProductResult
	ProductsByCategory(ctx context.Context, category, subCategory string, page, limit int) api.ProductsResult
	SearchProducts(ctx context.Context, q api.SearchQuery) api.ProductsResult
	Categories(ctx context.Context) api.CategoriesResult
	Banners(ctx context.Context, bannerType string) api.BannersResult
	IncrementViews(ctx context.Context, productID string) api.Result
	ProductReviews(ctx context.Context, productID string, page, limit int) api.ReviewsResult
	AddReview(ctx context.Context, productID string, rating int, comment string) api.ReviewResult
	CanReview(ctx context.Context, productID string) api.CanReviewResult
}

type Session interface {
	IsLoggedIn(ctx context.Context) bool
}

const (
	HotDealsLimit       = 12
	SectionLimit        = 6
	SectionProductLimit = 12
	NavCategoryLimit    = 7
	FooterCategoryLimit = 5
	RelatedLimit        = 8
	ReviewPageSize      = 20
)

type Service struct {
	catalog   Catalog
	session   Session
	recent    *recent.Viewed
	metrics   *metrics.AppMetrics
	storeName string
}

func NewService(catalog Catalog, session Session, viewed *recent.Viewed, m *metrics.AppMetrics, storeName string) *Service {
	return &Service{catalog: catalog, session: session, recent: viewed, metrics: m, storeName: storeName}
}

// Categories lists the categories of type "category".
func (s *Service) Categories(ctx context.Context) []model.Category {
	res := s.catalog.Categories(ctx)
	if !res.Success {
		logger.FromCtx(ctx).Warn("failed to load categories", zap.String("message", res.Message))
		return nil
	}
	out := make([]model.Category, 0, len(res.Categories))
	for _, c := range res.Categories {
		if c.Type == model.CategoryTypeCategory {
			out = append(out, c)
		}
	}
	return out
}

type Listing struct {
	Filter     Filter
	Products   []model.Product
	Pagination model.Pagination
	Categories []model.Category
}

// Search runs the listing query. A failed search yields an empty listing
// along with the error.
func (s *Service) Search(ctx context.Context, f Filter) (Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Product.Search"),
	)

	/* ---------- INPUT NORMALIZATION ---------- */

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = SectionProductLimit
	}
	if f.SortBy == "" {
		f.SortBy = DefaultSort
	}

	listing := Listing{
		Filter:     f,
		Products:   []model.Product{},
		Categories: s.Categories(ctx),
		Pagination: model.Pagination{Page: f.Page, Pages: 1, Limit: f.Limit},
	}

	/* ---------- REMOTE QUERY ---------- */

	res := s.catalog.SearchProducts(ctx, f.SearchQuery())
	if err := res.Err(); err != nil {
		log.Warn("product search failed", zap.String("message", res.Message))
		return listing, err
	}

	listing.Products = res.Products
	if listing.Products == nil {
		listing.Products = []model.Product{}
	}
	if res.Pagination != nil {
		listing.Pagination = *res.Pagination
		listing.Pagination.Limit = f.Limit
	}
	if listing.Pagination.Total == 0 {
		listing.Pagination.Total = len(listing.Products)
	}
	return listing, nil
}

type Section struct {
	Category string
	Products []model.Product
}

type Home struct {
	NavCategories    []model.Category
	FooterCategories []model.Category
	Categories       []model.Category
	HotDeals         []model.Product
	Sections         []Section
	Hero             []model.Banner
	Side             model.Banner
	Promo            []model.Banner
	CategoryBanners  []model.Banner
}

// Home composes the landing page. Every part degrades on its own: a failed
// call leaves its part empty or on default banners.
func (s *Service) Home(ctx context.Context) Home {
	h := Home{Categories: s.Categories(ctx)}
	h.NavCategories = head(h.Categories, NavCategoryLimit)
	h.FooterCategories = head(h.Categories, FooterCategoryLimit)

	if res := s.catalog.Products(ctx); res.Success {
		h.HotDeals = HotDeals(res.Products, HotDealsLimit)
		h.Sections = Sections(h.Categories, res.Products)
	} else {
		logger.FromCtx(ctx).Warn("failed to load products", zap.String("message", res.Message))
	}

	h.Hero = s.banners(ctx, "hero", defaultHeroBanners)
	h.Side = s.banners(ctx, "side", []model.Banner{defaultSideBanner})[0]
	h.Promo = s.banners(ctx, "promo", defaultPromoBanners)
	h.CategoryBanners = s.banners(ctx, "category", defaultCategoryBanners)
	sort.SliceStable(h.CategoryBanners, func(i, j int) bool {
		return h.CategoryBanners[i].Position < h.CategoryBanners[j].Position
	})
	return h
}

func (s *Service) banners(ctx context.Context, bannerType string, fallback []model.Banner) []model.Banner {
	res := s.catalog.Banners(ctx, bannerType)
	if !res.Success || len(res.Banners) == 0 {
		return fallback
	}
	return res.Banners
}

// HotDeals picks the discounted products, or the first products when none is
// discounted.
func HotDeals(products []model.Product, limit int) []model.Product {
	var deals []model.Product
	for _, p := range products {
		if p.HasDiscount() {
			deals = append(deals, p)
		}
	}
	if len(deals) == 0 {
		deals = products
	}
	return head(deals, limit)
}

// Sections groups products by category name, in the order of categories,
// skipping empty categories. Without any matching category it falls back to
// the categories the products carry, in order of first appearance.
func Sections(categories []model.Category, products []model.Product) []Section {
	byCategory := make(map[string][]model.Product)
	var order []string
	for _, p := range products {
		name := p.Category
		if name == "" {
			name = "Other"
		}
		if _, seen := byCategory[name]; !seen {
			order = append(order, name)
		}
		byCategory[name] = append(byCategory[name], p)
	}

	var names []string
	for _, c := range categories {
		if len(byCategory[c.Name]) > 0 {
			names = append(names, c.Name)
		}
	}
	if len(names) == 0 {
		names = order
	}
	names = head(names, SectionLimit)

	sections := make([]Section, 0, len(names))
	for _, name := range names {
		sections = append(sections, Section{Category: name, Products: head(byCategory[name], SectionProductLimit)})
	}
	return sections
}

type Spec struct {
	Label string
	Value string
}

type Detail struct {
	Product        model.Product
	Specs          []Spec
	Reviews        []model.Review
	Distribution   map[int]int
	ReviewTotal    int
	Related        []model.Product
	RecentlyViewed []model.Product
	CanReview      bool
}

// Detail loads a product page and records the visit. Reviews, related
// products and the view counter are best effort.
func (s *Service) Detail(ctx context.Context, productID string) (Detail, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Product.Detail"),
		zap.String("product_id", productID),
	)

	if productID == "" {
		return Detail{}, ErrMissingID
	}

	// 1️⃣ Product
	res := s.catalog.Product(ctx, productID)
	if !res.Success || res.Product == nil {
		log.Info("product not found", zap.String("message", res.Message))
		return Detail{}, ErrProductNotFound
	}
	p := *res.Product

	d := Detail{
		Product:      p,
		Specs:        s.Specs(p),
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	// 2️⃣ Record the visit
	if s.recent != nil {
		if err := s.recent.Record(ctx, p); err != nil {
			log.Warn("failed to record recently viewed", zap.Error(err))
		}
		d.RecentlyViewed = s.recent.Others(ctx, p.ID)
	}
	if views := s.catalog.IncrementViews(ctx, p.ID); !views.Success {
		log.Debug("view counter not incremented", zap.String("message", views.Message))
	}
	s.metrics.RecordProductView(ctx, p.Category)

	// 3️⃣ Reviews
	if rv := s.catalog.ProductReviews(ctx, p.ID, 1, ReviewPageSize); rv.Success {
		d.Reviews = rv.Reviews
		for star, n := range rv.Distribution {
			if star >= 1 && star <= 5 {
				d.Distribution[star] = n
			}
		}
	}
	d.ReviewTotal = p.ReviewCount
	if d.ReviewTotal == 0 {
		d.ReviewTotal = len(d.Reviews)
	}
	if s.session != nil && s.session.IsLoggedIn(ctx) {
		d.CanReview = s.catalog.CanReview(ctx, p.ID).CanReview
	}

	// 4️⃣ Related products
	if p.Category != "" {
		if rel := s.catalog.ProductsByCategory(ctx, p.Category, "", 1, SectionProductLimit); rel.Success {
			d.Related = Related(rel.Products, p.ID, RelatedLimit)
		}
	}

	return d, nil
}

// Related drops selfID from products and keeps at most limit.
func Related(products []model.Product, selfID string, limit int) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.ID != selfID {
			out = append(out, p)
		}
	}
	return head(out, limit)
}

// Specs lists the product specifications, or a default sheet built from the
// product fields when it has none.
func (s *Service) Specs(p model.Product) []Spec {
	var specs []Spec
	for _, sp := range p.Specs {
		if sp.Name != "" && sp.Value != "" {
			specs = append(specs, Spec{Label: sp.Name, Value: sp.Value})
		}
	}
	if len(specs) > 0 {
		return specs
	}

	category := p.Category
	if category == "" {
		category = "N/A"
	}
	brand := p.Brand
	if brand == "" {
		brand = s.storeName
	}
	availability := "Rupture de stock"
	if p.InStock() {
		availability = "En stock"
	}

	specs = []Spec{
		{Label: "Catégorie", Value: category},
		{Label: "Marque", Value: brand},
		{Label: "Référence", Value: Reference(p)},
		{Label: "Disponibilité", Value: availability},
		{Label: "Garantie", Value: "12 mois"},
		{Label: "Livraison", Value: "Partout au Maroc"},
	}
	if p.SubCategory != "" {
		specs = append(specs[:1], append([]Spec{{Label: "Sous-catégorie", Value: p.SubCategory}}, specs[1:]...)...)
	}
	return specs
}

// Reference is the SKU, or EY- followed by the last six characters of the id.
func Reference(p model.Product) string {
	if p.SKU != "" {
		return p.SKU
	}
	id := p.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	if id == "" {
		id = "000000"
	}
	return "EY-" + strings.ToUpper(id)
}

// SubmitReview posts a review after checking it locally.
func (s *Service) SubmitReview(ctx context.Context, productID string, rating int, comment string) error {
	if s.session == nil || !s.session.IsLoggedIn(ctx) {
		return ErrNotAuthenticated
	}
	if rating < 1 || rating > 5 {
		return ErrRatingRequired
	}
	comment = strings.TrimSpace(comment)
	if len([]rune(comment)) < MinCommentLength {
		return ErrCommentTooShort
	}

	res := s.catalog.AddReview(ctx, productID, rating, comment)
	if !res.Success {
		logger.FromCtx(ctx).Info("review rejected",
			zap.String("product_id", productID),
			zap.String("message", res.Message),
		)
		return &api.Error{Message: res.MessageOr(msgReviewFailed)}
	}
	return nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
