package integration

// Category is a node of the platform category tree
type Category struct {
	CategoryID       int64
	Name             string
	GlobalIdentifier string
	AttributeSetID   int64
	Children         []Category
}

// CategoryAttribute describes one attribute a category accepts
type CategoryAttribute struct {
	Name          string
	Label         string
	FeedName      string
	IsMandatory   bool
	Description   string
	AttributeType string
	ExampleValue  string
	MaxLength     int
	Options       []string
}

// Brand is a brand known to the platform
type Brand struct {
	BrandID          int64
	Name             string
	GlobalIdentifier string
}

// Seller is the seller account behind the API credentials
type Seller struct {
	SellerID    string
	Name        string
	CompanyName string
	Email       string
	Country     string
	Operator    string
}
