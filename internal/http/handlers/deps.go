package handlers

import (
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/auth"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/config"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/events"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/ledger"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/services"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
)

type Deps struct {
	AuthHandler     *AuthHandler
	StockHandler    *StockHandler
	SaleHandler     *SaleHandler
	TransferHandler *TransferHandler
	ReturnHandler   *ReturnHandler
}

func NewDeps(st store.Store, cfg config.Config, pub events.Publisher) *Deps {
	led := ledger.New(st)
	policy := services.StaticPolicy{Policy: cfg.ReturnPolicy()}

	authSvc := auth.NewService(st, cfg.JWTSecret)
	invSvc := services.NewInventory(st, led, pub)
	saleSvc := services.NewSales(st, led, pub)
	transferSvc := services.NewTransfers(st, led, pub)
	returnSvc := services.NewReturns(st, led, pub, policy)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		StockHandler:    &StockHandler{Inv: invSvc},
		SaleHandler:     &SaleHandler{Sales: saleSvc},
		TransferHandler: &TransferHandler{Transfers: transferSvc},
		ReturnHandler:   &ReturnHandler{Returns: returnSvc},
	}
}
