package common

const (
	RedisStreamPriceImported = "stock.price.imported"
	RedisStreamNewsImported  = "stock.news.imported"

	CacheKeyStockByCode = "stock:code:"

	DefaultTimeZone = "Asia/Tokyo"

	MaxPriceUploadBytes = 10 << 20
	MaxNewsUploadBytes  = 5 << 20
)
