package metrics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront-web/internal/config"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// AppMetrics holds the storefront instruments. A nil *AppMetrics is valid and
// records nothing.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Remote API
	GatewayCallsTotal   metric.Int64Counter
	GatewayCallErrors   metric.Int64Counter
	GatewayCallDuration metric.Float64Histogram

	// Business
	ProductsViewed   metric.Int64Counter
	CartEvents       metric.Int64Counter
	CartItemsCount   metric.Int64Histogram
	WishlistEvents   metric.Int64Counter
	OrdersCreated    metric.Int64Counter
	RevenueTotal     metric.Float64Counter
	OrdersReconciled metric.Int64Counter

	serviceName string
}

var cartSizeBuckets = []float64{0, 1, 2, 3, 5, 10, 20, 50}

// Default histogram buckets in milliseconds, up to 60s.
var durationBuckets = []float64{2, 4, 6, 8, 10, 50, 100, 200, 400, 800, 1000, 1400, 2000, 5000, 10000, 15000, 20000, 30000, 45000, 60000}

// InitMetrics wires an OTLP HTTP exporter to a global meter provider and
// builds the instruments on it.
func InitMetrics(ctx context.Context, cfg *config.Config) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	envRes, err := resource.New(ctx, resource.WithFromEnv())
	if err != nil {
		envRes = resource.Empty()
	}

	explicitRes, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTELServiceName),
			semconv.ServiceVersion(cfg.OTELServiceVersion),
			attribute.String("deployment.environment", cfg.AppEnv),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	res, err := resource.Merge(envRes, explicitRes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to merge resources: %w", err)
	}

	exporterOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTELExporterOTLPEndpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if headers := parseHeaders(cfg.OTELExporterOTLPHeaders); len(headers) > 0 {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithHeaders(headers))
	}
	if cfg.OTELExporterOTLPInsecure {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))),
	)
	otel.SetMeterProvider(provider)

	m, err := New(provider.Meter(cfg.OTELServiceName), cfg.OTELServiceName, cfg.CurrencyCode)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, err
	}
	return m, provider, nil
}

// New builds the instruments on meter. currency is the unit of the revenue
// counter.
func New(meter metric.Meter, serviceName, currency string) (*AppMetrics, error) {
	m := &AppMetrics{serviceName: serviceName}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.HTTPRequestsTotal, "http.server.request.count", "Total number of HTTP requests"},
		{&m.HTTPRequestsErrors, "http.server.request.error.count", "Total number of HTTP error responses"},
		{&m.GatewayCallsTotal, "storefront.api.call.count", "Total number of remote API calls"},
		{&m.GatewayCallErrors, "storefront.api.call.error.count", "Total number of failed remote API calls"},
		{&m.ProductsViewed, "products_viewed_total", "Total number of product detail views"},
		{&m.CartEvents, "cart_events_total", "Total number of cart mutations"},
		{&m.WishlistEvents, "wishlist_events_total", "Total number of wishlist mutations"},
		{&m.OrdersCreated, "orders_created_total", "Total number of orders placed"},
		{&m.OrdersReconciled, "guest_orders_reconciled_total", "Guest orders adopted by an account"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit("1"))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
	}

	histograms := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
	}{
		{&m.HTTPRequestDuration, "http.server.request.duration", "HTTP request duration in milliseconds"},
		{&m.GatewayCallDuration, "storefront.api.call.duration", "Remote API call duration in milliseconds"},
	}
	for _, h := range histograms {
		*h.dst, err = meter.Float64Histogram(h.name,
			metric.WithDescription(h.desc),
			metric.WithUnit("ms"),
			metric.WithExplicitBucketBoundaries(durationBuckets...),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s histogram: %w", h.name, err)
		}
	}

	m.CartItemsCount, err = meter.Int64Histogram("cart_items_count",
		metric.WithDescription("Number of items in a cart after a mutation"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(cartSizeBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart items histogram: %w", err)
	}

	if currency == "" {
		currency = "1"
	}
	m.RevenueTotal, err = meter.Float64Counter("revenue_total",
		metric.WithDescription("Total amount of placed orders, shipping included"),
		metric.WithUnit(currency),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}

	return m, nil
}

func (m *AppMetrics) attrs(kv ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(append(kv, attribute.String("service.name", m.serviceName))...)
}

func (m *AppMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, millis float64) {
	if m == nil {
		return
	}
	opt := m.attrs(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.String("http.response.status_code", strconv.Itoa(status)),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, opt)
	m.HTTPRequestDuration.Record(ctx, millis, opt)
	if status >= 400 {
		m.HTTPRequestsErrors.Add(ctx, 1, opt)
	}
}

func (m *AppMetrics) RecordGatewayCall(ctx context.Context, endpoint string, success bool, millis float64) {
	if m == nil {
		return
	}
	opt := m.attrs(
		attribute.String("api.endpoint", endpoint),
		attribute.Bool("api.success", success),
	)
	m.GatewayCallsTotal.Add(ctx, 1, opt)
	m.GatewayCallDuration.Record(ctx, millis, opt)
	if !success {
		m.GatewayCallErrors.Add(ctx, 1, opt)
	}
}

// RecordProductView counts a detail view by product category; product ids
// are not used as attributes.
func (m *AppMetrics) RecordProductView(ctx context.Context, category string) {
	if m == nil {
		return
	}
	if category == "" {
		category = "none"
	}
	m.ProductsViewed.Add(ctx, 1, m.attrs(attribute.String("product.category", category)))
}

func (m *AppMetrics) RecordCartEvent(ctx context.Context, kind string, itemCount int) {
	if m == nil {
		return
	}
	m.CartEvents.Add(ctx, 1, m.attrs(attribute.String("cart.event", kind)))
	m.CartItemsCount.Record(ctx, int64(itemCount), m.attrs())
}

func (m *AppMetrics) RecordWishlistEvent(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.WishlistEvents.Add(ctx, 1, m.attrs(attribute.String("wishlist.event", kind)))
}

func (m *AppMetrics) RecordOrder(ctx context.Context, guest bool, amount decimal.Decimal) {
	if m == nil {
		return
	}
	opt := m.attrs(attribute.Bool("order.guest", guest))
	m.OrdersCreated.Add(ctx, 1, opt)
	m.RevenueTotal.Add(ctx, amount.InexactFloat64(), opt)
}

func (m *AppMetrics) RecordReconciled(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OrdersReconciled.Add(ctx, int64(n), m.attrs())
}

// parseHeaders parses "key1=value1,key2=value2".
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	if headerStr == "" {
		return headers
	}

	for _, pair := range strings.Split(headerStr, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headers
}
