package bot

import (
	"fmt"
	"strconv"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/services"
)

// showCategories emits the distinct category set as quick replies.
func (e *Engine) showCategories(session *Session) {
	categories, err := e.catalog.Categories()
	if err != nil {
		e.send(session.UserID, services.TextMessage("Sorry, the catalog is unavailable right now. Please try again in a moment."))
		return
	}
	if len(categories) == 0 {
		e.showProducts(session, "")
		return
	}

	choices := make([]services.QuickReply, 0, len(categories)+1)
	choices = append(choices, services.Choice("All products", PayloadShowProducts))
	for _, category := range categories {
		choices = append(choices, services.Choice(category, PayloadCategoryPrefix+category))
	}

	session.Step = StepBrowse
	e.send(session.UserID, services.QuickReplyMessage("What are you shopping for?", choices...))
}

// showProducts emits a product carousel, optionally filtered by category.
// An empty result for a requested category does not change the step.
func (e *Engine) showProducts(session *Session, category string) {
	var (
		products []*models.Product
		err      error
	)
	if category == "" {
		products, err = e.catalog.AllProducts()
	} else {
		all, catErr := e.catalog.AllProducts()
		err = catErr
		for _, product := range all {
			if product.Category == category {
				products = append(products, product)
			}
		}
	}
	if err != nil {
		e.send(session.UserID, services.TextMessage("Sorry, the catalog is unavailable right now. Please try again in a moment."))
		return
	}

	if len(products) == 0 {
		if category != "" {
			e.send(session.UserID, services.QuickReplyMessage(
				fmt.Sprintf("No products in %q right now.", category),
				services.Choice("All products", PayloadShowProducts),
				services.Choice("Categories", PayloadShowCategories),
			))
			return
		}
		e.send(session.UserID, services.TextMessage("The shop is empty right now. Please check back soon!"))
		session.Step = StepBrowse
		return
	}

	cards := make([]services.CarouselCard, 0, len(products))
	for _, product := range products {
		cards = append(cards, services.CarouselCard{
			Title:    product.Name,
			Subtitle: fmt.Sprintf("฿%.0f", product.Price),
			ImageURL: product.ImageURL,
			Buttons: []services.Button{
				services.PostbackButton("Add to cart", PayloadProductPrefix+product.ProductID),
			},
		})
	}

	session.Step = StepBrowse
	e.send(session.UserID, services.CarouselMessage(cards...))
	e.send(session.UserID, services.QuickReplyMessage(
		"Tap a product to add it, or:",
		services.Choice("Categories", PayloadShowCategories),
		services.Choice("My cart", PayloadShowCart),
	))
}

// selectProduct starts the add-to-cart flow for one product. Products
// with multiple units go through unit selection; products with option
// groups go through sequential option selection; plain products skip
// straight to the quantity prompt.
func (e *Engine) selectProduct(session *Session, productID string) {
	product, err := e.catalog.ProductByID(productID)
	if err != nil {
		e.send(session.UserID, services.TextMessage("Sorry, the catalog is unavailable right now. Please try again in a moment."))
		return
	}
	if product == nil {
		e.send(session.UserID, services.TextMessage("That product is no longer available."))
		e.showProducts(session, "")
		return
	}

	session.ResetPending()
	session.Pending.Product = product

	if len(product.Units) > 0 {
		e.askUnit(session)
		return
	}
	if len(product.OptionGroups) > 0 {
		session.Step = StepSelectOption
		e.askNextOption(session)
		return
	}
	e.askQuantity(session)
}

// askUnit presents the product's purchasable units.
func (e *Engine) askUnit(session *Session) {
	product := session.Pending.Product
	if product == nil || len(product.Units) == 0 {
		e.showProducts(session, "")
		return
	}

	choices := make([]services.QuickReply, 0, len(product.Units))
	for i, unit := range product.Units {
		title := fmt.Sprintf("%s ฿%.0f", unit.Label, unit.Price)
		choices = append(choices, services.Choice(title, PayloadUnitPrefix+strconv.Itoa(i)))
	}

	session.Step = StepSelectUnit
	e.send(session.UserID, services.QuickReplyMessage(
		fmt.Sprintf("How would you like to buy %s?", product.Name), choices...))
}

// selectUnit records the chosen unit and moves on to options or quantity.
func (e *Engine) selectUnit(session *Session, idxStr string) {
	product := session.Pending.Product
	if product == nil {
		// Stale payload from an earlier prompt; nothing to apply it to.
		e.showProducts(session, "")
		return
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(product.Units) {
		e.askUnit(session)
		return
	}

	session.Pending.Unit = &product.Units[idx]

	if len(product.OptionGroups) > 0 {
		session.Pending.OptIdx = 0
		session.Step = StepSelectOption
		e.askNextOption(session)
		return
	}
	e.askQuantity(session)
}

// askNextOption presents one option group at a time. Multiple
// independent option axes cannot share one prompt without combinatorial
// blow-up, and the platform caps choices per prompt anyway.
func (e *Engine) askNextOption(session *Session) {
	product := session.Pending.Product
	if product == nil || session.Pending.OptIdx >= len(product.OptionGroups) {
		e.showProducts(session, "")
		return
	}

	group := product.OptionGroups[session.Pending.OptIdx]
	labels := group.ValueLabels()
	if len(labels) == 0 {
		// Malformed group; skip it rather than stranding the user.
		session.Pending.OptIdx++
		e.advanceAfterOptions(session)
		return
	}

	choices := make([]services.QuickReply, 0, len(labels))
	for i, label := range labels {
		choices = append(choices, services.Choice(label, PayloadOptionPrefix+strconv.Itoa(i)))
	}

	session.Step = StepSelectOption
	e.send(session.UserID, services.QuickReplyMessage(
		fmt.Sprintf("Choose %s:", group.Name), choices...))
}

// selectOption records one option answer and advances the cursor.
func (e *Engine) selectOption(session *Session, idxStr string) {
	product := session.Pending.Product
	if product == nil || session.Pending.OptIdx >= len(product.OptionGroups) {
		e.showProducts(session, "")
		return
	}

	group := product.OptionGroups[session.Pending.OptIdx]
	labels := group.ValueLabels()
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(labels) {
		e.askNextOption(session)
		return
	}

	if session.Pending.Options == nil {
		session.Pending.Options = make(map[string]string)
	}
	session.Pending.Options[group.Name] = labels[idx]
	session.Pending.OptIdx++
	e.advanceAfterOptions(session)
}

// advanceAfterOptions continues to the next option group, or past the
// option step once every group is answered.
func (e *Engine) advanceAfterOptions(session *Session) {
	product := session.Pending.Product
	if product == nil {
		e.showProducts(session, "")
		return
	}
	if session.Pending.OptIdx < len(product.OptionGroups) {
		e.askNextOption(session)
		return
	}
	if session.Pending.EditLine >= 0 {
		e.applyOptionEdit(session)
		return
	}
	e.askQuantity(session)
}

// askQuantity prompts for a positive integer, with quick suggestions.
func (e *Engine) askQuantity(session *Session) {
	session.Step = StepAskQuantity
	choices := make([]services.QuickReply, 0, 5)
	for i := 1; i <= 5; i++ {
		choices = append(choices, services.Choice(strconv.Itoa(i), PayloadQtyPrefix+strconv.Itoa(i)))
	}
	e.send(session.UserID, services.QuickReplyMessage("How many would you like?", choices...))
}

// handleQuantity validates the quantity input. Non-numeric or
// non-positive input is rejected with a re-prompt, never coerced.
func (e *Engine) handleQuantity(session *Session, text string) {
	quantity, err := strconv.Atoi(text)
	if err != nil || quantity <= 0 {
		session.Step = StepAskQuantity
		e.send(session.UserID, services.TextMessage("Please enter a quantity of 1 or more (numbers only)."))
		return
	}

	if session.Pending.EditLine >= 0 {
		e.applyQuantityEdit(session, quantity)
		return
	}
	e.addProductWithOptions(session, quantity)
}

// addProductWithOptions commits the fully-specified line into the cart,
// clears the scratch state and shows the cart summary.
func (e *Engine) addProductWithOptions(session *Session, quantity int) {
	product := session.Pending.Product
	if product == nil {
		e.showProducts(session, "")
		return
	}

	line := models.CartLine{
		ProductID:   product.ProductID,
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    quantity,
		ShippingFee: product.ShippingFee,
	}
	if unit := session.Pending.Unit; unit != nil {
		line.UnitLabel = unit.Label
		line.UnitPrice = unit.Price
		line.Price = unit.Price
		line.ShippingFee = unit.ShippingFee
	}
	if len(session.Pending.Options) > 0 {
		line.SelectedOptions = session.Pending.Options
	}

	e.sessions.AddCartLine(session.UserID, line)
	session.ResetPending()
	session.Step = StepSummary
	e.showSummary(session)
}

// editLineQuantity re-enters the quantity prompt for an existing cart line.
func (e *Engine) editLineQuantity(session *Session, idxStr string) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(session.Cart) {
		e.showCart(session)
		return
	}

	session.ResetPending()
	session.Pending.EditLine = idx
	session.Step = StepAskQuantity
	e.send(session.UserID, services.TextMessage(
		fmt.Sprintf("New quantity for %s?", session.Cart[idx].Name)))
}

func (e *Engine) applyQuantityEdit(session *Session, quantity int) {
	idx := session.Pending.EditLine
	if idx < 0 || idx >= len(session.Cart) {
		session.ResetPending()
		e.showCart(session)
		return
	}
	session.Cart[idx].Quantity = quantity
	session.ResetPending()
	session.Step = StepSummary
	e.showCart(session)
}

// editLineOptions re-runs the option groups for an existing cart line.
func (e *Engine) editLineOptions(session *Session, idxStr string) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(session.Cart) {
		e.showCart(session)
		return
	}

	product, err := e.catalog.ProductByID(session.Cart[idx].ProductID)
	if err != nil || product == nil || len(product.OptionGroups) == 0 {
		e.send(session.UserID, services.TextMessage("That item has no options to change."))
		e.showCart(session)
		return
	}

	session.ResetPending()
	session.Pending.Product = product
	session.Pending.EditLine = idx
	session.Step = StepSelectOption
	e.askNextOption(session)
}

func (e *Engine) applyOptionEdit(session *Session) {
	idx := session.Pending.EditLine
	if idx < 0 || idx >= len(session.Cart) {
		session.ResetPending()
		e.showCart(session)
		return
	}
	session.Cart[idx].SelectedOptions = session.Pending.Options
	session.ResetPending()
	session.Step = StepSummary
	e.showCart(session)
}
