package models

import "time"

type AssetType string

const (
	AssetStock    AssetType = "stock"
	AssetCurrency AssetType = "currency"
	AssetGold     AssetType = "gold"
	AssetBank     AssetType = "bank"
	AssetCrypto   AssetType = "crypto"
)

var AssetTypes = []AssetType{AssetStock, AssetCurrency, AssetGold, AssetBank, AssetCrypto}

func (a AssetType) Valid() bool {
	switch a {
	case AssetStock, AssetCurrency, AssetGold, AssetBank, AssetCrypto:
		return true
	default:
		return false
	}
}

type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

func (t TradeType) Valid() bool {
	return t == TradeBuy || t == TradeSell
}

// DateLayout is the calendar date format used by Transaction.Date.
const DateLayout = "2006-01-02"

type SectorDesc struct {
	Name   string `json:"name"`
	NameEn string `json:"nameEn"`
}

// SymbolDetails describes an equity. Only stock transactions carry it.
type SymbolDetails struct {
	ID           string     `json:"_id"`
	Ticker       string     `json:"ticker"`
	SecurityDesc string     `json:"securityDesc"`
	Code         string     `json:"code"`
	Sector       string     `json:"sector"`
	SectorDesc   SectorDesc `json:"sectorDesc"`
	IssuerName   string     `json:"issuerName"`
}

// Transaction is one buy or sell event. It is never mutated after creation.
type Transaction struct {
	ID            string         `json:"id"`
	Symbol        string         `json:"symbol"`
	SymbolName    string         `json:"symbolName"`
	SymbolDetails *SymbolDetails `json:"symbolDetails,omitempty"`
	AssetType     AssetType      `json:"assetType"`
	Quantity      float64        `json:"quantity"`
	Price         float64        `json:"price"`
	Date          string         `json:"date"`
	Type          TradeType      `json:"type"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// PositionKey identifies the position a transaction contributes to.
type PositionKey struct {
	Symbol    string
	AssetType AssetType
}

func (t Transaction) Key() PositionKey {
	return PositionKey{Symbol: t.Symbol, AssetType: t.AssetType}
}

type PositionSummary struct {
	Symbol               string         `json:"symbol"`
	SymbolDetails        *SymbolDetails `json:"symbolDetails,omitempty"`
	AssetType            AssetType      `json:"assetType"`
	TotalQuantity        float64        `json:"totalQuantity"`
	AverageCost          float64        `json:"averageCost"`
	TotalCost            float64        `json:"totalCost"`
	CurrentPrice         float64        `json:"currentPrice"`
	MarketValue          float64        `json:"marketValue"`
	ProfitLoss           float64        `json:"profitLoss"`
	ProfitLossPercentage float64        `json:"profitLossPercentage"`
}

type Totals struct {
	MarketValue          float64 `json:"marketValue"`
	TotalCost            float64 `json:"totalCost"`
	ProfitLoss           float64 `json:"profitLoss"`
	ProfitLossPercentage float64 `json:"profitLossPercentage"`
	TransactionCount     int     `json:"transactionCount"`
}

type Stats struct {
	BuyCount     int     `json:"buyCount"`
	SellCount    int     `json:"sellCount"`
	UniqueAssets int     `json:"uniqueAssets"`
	TradedVolume float64 `json:"tradedVolume"`
}

// Profile is a named transaction log bound to an owner identity.
type Profile struct {
	ID           string        `json:"id"`
	Label        string        `json:"label"`
	Transactions []Transaction `json:"transactions"`
	IsOwner      bool          `json:"isOwner"`
	LastUpdated  time.Time     `json:"lastUpdated"`
}

type Setting struct {
	ID        int64     `json:"id"         gorm:"primaryKey"`
	Key       string    `json:"key"        gorm:"uniqueIndex"`
	Value     string    `json:"value"      gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	ImportStatusApplied   = "applied"
	ImportStatusStaged    = "staged"
	ImportStatusRejected  = "rejected"
	ImportStatusFailed    = "failed"
	ImportStatusCancelled = "cancelled"
)

type ImportLog struct {
	ID            int64     `json:"id"             gorm:"primaryKey"`
	Mode          string    `json:"mode"           gorm:"index"`
	Source        string    `json:"source"`
	Owner         string    `json:"owner"`
	ExistingCount int       `json:"existing_count"`
	IncomingCount int       `json:"incoming_count"`
	Status        string    `json:"status"         gorm:"index"`
	Message       string    `json:"message"        gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

func (ImportLog) TableName() string {
	return "import_logs"
}
