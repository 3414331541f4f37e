package models

// Actor identifies the shop user behind a write.
type Actor struct {
	Name string `bson:"name" json:"name"`
	UID  string `bson:"uid" json:"uid"`
}

// AddedProduct is one product intake. It is never modified after creation.
type AddedProduct struct {
	ProductID      string  `bson:"productId" json:"productId" validate:"required"`
	ProductName    string  `bson:"productName" json:"productName" validate:"required"`
	Quantity       int     `bson:"quantity" json:"quantity" validate:"gt=0"`
	BuyingPrice    float64 `bson:"buyingPrice" json:"buyingPrice" validate:"gte=0"`
	ProductAddedAt string  `bson:"productAddedAt" json:"productAddedAt"`
	AddedBy        Actor   `bson:"addedBy" json:"addedBy"`
	Timestamp      int64   `bson:"timestamp" json:"timestamp"`
}
