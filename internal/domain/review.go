package domain

import "time"

type Review struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	UserName           string    `json:"userName,omitempty"`
	ProductID          string    `json:"productId"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	IsVerifiedPurchase bool      `json:"isVerifiedPurchase"`
	CreatedAt          time.Time `json:"createdAt"`
}
