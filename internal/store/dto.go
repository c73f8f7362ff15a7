package store

type StoreDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Address  string `json:"address" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=30"`
	IsActive *bool  `json:"isActive"`
}

type SettingsDTO struct {
	Currency      string `json:"currency" validate:"required,len=3,alpha"`
	Timezone      string `json:"timezone" validate:"omitempty,timezone"`
	ReceiptHeader string `json:"receiptHeader" validate:"max=500"`
	ReceiptFooter string `json:"receiptFooter" validate:"max=500"`
	LogoURL       string `json:"logoUrl" validate:"max=255"`
	TaxInclusive  bool   `json:"taxInclusive"`
}

type PosDeviceDTO struct {
	StoreID    int64  `json:"storeId" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required,max=100"`
	DeviceCode string `json:"deviceCode" validate:"required,alphanum,max=50"`
	IsActive   *bool  `json:"isActive"`
}

type DiningOptionDTO struct {
	StoreID   int64  `json:"storeId" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=100"`
	IsDefault bool   `json:"isDefault"`
	IsActive  *bool  `json:"isActive"`
}

type KitchenQueueDTO struct {
	StoreID     int64   `json:"storeId" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,max=100"`
	CategoryIDs []int64 `json:"categoryIds" validate:"dive,gt=0"`
	IsActive    *bool   `json:"isActive"`
}
