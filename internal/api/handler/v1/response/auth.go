package response

import (
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
)

type LoginResponse struct {
	Token string              `json:"token"`
	Admin domain.AdminAccount `json:"admin"`
}
