package user

type CreateUserDTO struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=6,max=200"`
	DisplayName string `json:"displayName" validate:"max=100"`
	Role        string `json:"role" validate:"required,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=30"`
	StoreID     *int64 `json:"storeId" validate:"omitempty,gt=0"`
}

// UpdateUserDTO leaves the password untouched when it is empty.
type UpdateUserDTO struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"omitempty,min=6,max=200"`
	DisplayName string `json:"displayName" validate:"max=100"`
	Role        string `json:"role" validate:"required,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=30"`
	StoreID     *int64 `json:"storeId" validate:"omitempty,gt=0"`
	IsActive    *bool  `json:"isActive"`
}
