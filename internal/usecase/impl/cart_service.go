package impl

import (
	"context"
	"log/slog"

	deliverycontext "voltcart/internal/delivery/context"
	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddToCart adds a product to the cart, merging with an existing line.
func (srv *cartService) AddToCart(ctx context.Context, userID uuid.UUID, input *usecase.AddToCartInput) (*entity.CartItem, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, errors.Wrap(domainerrors.ErrQuantityTooLow, "add to cart below minimum")
	}

	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to load product for cart")
	}

	existing, err := srv.cartRepo.FindActiveByUserAndProduct(ctx, userID, input.ProductID)
	if err != nil && !errors.Is(err, repository.ErrCartItemNotFound) {
		return nil, errors.Wrap(err, "failed to look up existing cart line")
	}

	// The stock guard applies to the whole merged line, not the increment.
	total := quantity
	if existing != nil {
		total += existing.Quantity
	}
	if total > product.Stock {
		return nil, errors.Wrap(domainerrors.ErrOutOfStock, "requested quantity exceeds stock")
	}

	if existing != nil {
		if err := srv.cartRepo.UpdateQuantity(ctx, existing.ID, total); err != nil {
			return nil, errors.Wrap(err, "failed to merge cart line")
		}
		existing.Quantity = total
		existing.Product = product

		return existing, nil
	}

	line := &entity.CartItem{
		UserID:    userID,
		ProductID: input.ProductID,
		Quantity:  quantity,
		Size:      input.Size,
		Color:     input.Color,
		Status:    entity.CartStatusActive,
	}
	if err := srv.cartRepo.Create(ctx, line); err != nil {
		return nil, errors.Wrap(err, "failed to create cart line")
	}
	line.Product = product

	srv.log(ctx).Debug("Added product to cart", slog.Any("userID", userID), slog.Any("productID", input.ProductID), slog.Int("quantity", quantity))

	return line, nil
}

// GetCart loads the user's cart, filtering out lines whose product is
// missing or unsellable, and computes the subtotal over the surviving lines.
// Filtered lines are left in place; they resurface if the product recovers.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	lines, err := srv.cartRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	items := make([]*entity.CartItem, 0, len(lines))
	var subtotal float64
	dropped := 0

	for _, line := range lines {
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if !line.Valid() {
			dropped++

			continue
		}
		items = append(items, line)
		subtotal += line.LineTotal()
	}

	if dropped > 0 {
		srv.log(ctx).Warn("Cart lines excluded from listing", slog.Any("userID", userID), slog.Int("dropped", dropped))
	}

	return &usecase.CartOutput{Items: items, Subtotal: subtotal}, nil
}

// UpdateItem sets a line's quantity. Both rejections happen before any
// repository write.
func (srv *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, input *usecase.UpdateCartItemInput) (*entity.CartItem, error) {
	if input.Quantity < 1 {
		return nil, errors.Wrap(domainerrors.ErrQuantityTooLow, "cart quantity below minimum")
	}

	line, err := srv.cartRepo.FindActiveByUserAndProduct(ctx, userID, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "no cart line for product")
		}

		return nil, errors.Wrap(err, "failed to load cart line")
	}

	product := line.Product
	if product == nil {
		product, err = srv.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load product for quantity check")
		}
	}
	if input.Quantity > product.Stock {
		return nil, errors.Wrap(domainerrors.ErrOutOfStock, "requested quantity exceeds stock")
	}

	if err := srv.cartRepo.UpdateQuantity(ctx, line.ID, input.Quantity); err != nil {
		return nil, errors.Wrap(err, "failed to update cart quantity")
	}
	line.Quantity = input.Quantity
	line.Product = product

	return line, nil
}

// RemoveItem deletes one cart line owned by the user.
func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	line, err := srv.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return errors.Wrap(domainerrors.ErrCartItemNotFound, "cart line not found")
		}

		return errors.Wrap(err, "failed to load cart line")
	}
	if line.UserID != userID {
		return errors.Wrap(domainerrors.ErrForbidden, "cart line belongs to another user")
	}

	if err := srv.cartRepo.Delete(ctx, itemID); err != nil {
		return errors.Wrap(err, "failed to delete cart line")
	}

	return nil
}
