package controller

import "errors"

// Messages shown to the user for checks done before any network call.
const (
	MsgLoginRequired        = "Debes iniciar sesión para agregar al carrito"
	MsgSelfPurchase         = "No puedes comprar tus propios productos"
	MsgCheckoutPrecondition = "Debes estar logueado y tener productos en el carrito"
)

var (
	ErrNotLoggedIn          = errors.New(MsgLoginRequired)
	ErrSelfPurchase         = errors.New(MsgSelfPurchase)
	ErrCheckoutPrecondition = errors.New(MsgCheckoutPrecondition)
	ErrMissingID            = errors.New("missing user or product id")
	ErrClosed               = errors.New("controller closed")
)
