package handlers

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"alumni/api"
	"alumni/models"
	"alumni/utils"
)

func init() {
	register(
		Command{Name: "donate", Summary: "open a donation order", Run: donate},
		Command{Name: "verify-payment", Summary: "confirm a completed checkout", Run: verifyPayment},
		Command{Name: "progress", Summary: "show the fundraising progress", Run: progress},
		Command{Name: "history", Summary: "list your donations", RequiresAuth: true, Run: history},
	)
}

type orderView struct {
	Order   *models.Order
	Request models.OrderRequest
}

// donorForm holds the donor flags shared by donate and verify-payment.
type donorForm struct {
	fs        *flag.FlagSet
	amount    float64
	donor     models.Donor
	anonymous bool
}

func donorFlags(a *App, name string) *donorForm {
	f := &donorForm{fs: a.flags(name)}
	f.fs.Float64Var(&f.amount, "amount", 0, "amount in major currency units")
	f.fs.StringVar(&f.donor.Name, "name", "", "donor name")
	f.fs.StringVar(&f.donor.Email, "email", "", "donor email")
	f.fs.StringVar(&f.donor.Message, "message", "", "message to the association")
	f.fs.BoolVar(&f.anonymous, "anonymous", false, "hide your name from donor lists")
	return f
}

func (f *donorForm) donorOrNil() *models.Donor {
	if f.donor == (models.Donor{}) {
		return nil
	}
	d := f.donor
	return &d
}

// donate opens a payment-provider order. With -record the donation is
// recorded directly instead, for gifts received outside the checkout.
func donate(ctx context.Context, a *App, args []string) error {
	f := donorFlags(a, "donate")
	currency := f.fs.String("currency", "INR", "ISO currency code")
	record := f.fs.Bool("record", false, "record the donation without a checkout")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	if err := utils.ValidateAmount(f.amount); err != nil {
		return err
	}
	if f.donor.Email != "" {
		if err := utils.ValidateEmail(f.donor.Email); err != nil {
			return fmt.Errorf("invalid email: %w", err)
		}
	}

	if *record {
		d, err := a.Client.Donations.MakeDonation(ctx, models.Donation{
			Amount:    f.amount,
			Currency:  *currency,
			Donor:     f.donorOrNil(),
			Anonymous: f.anonymous,
		})
		if err != nil {
			return err
		}
		a.printf("Recorded donation %s of %s %s.", d.ID, money(d.Amount), d.Currency)
		return nil
	}

	req := models.OrderRequest{Amount: f.amount, Currency: *currency, Donor: f.donorOrNil(), Anonymous: f.anonymous}
	order, err := a.Client.Donations.CreateOrder(ctx, req)
	if err != nil {
		return err
	}
	return a.render("order", orderView{Order: order, Request: req})
}

func verifyPayment(ctx context.Context, a *App, args []string) error {
	f := donorFlags(a, "verify-payment")
	var v models.PaymentVerification
	f.fs.StringVar(&v.OrderID, "order", "", "order id")
	f.fs.StringVar(&v.PaymentID, "payment", "", "payment id from the checkout")
	f.fs.StringVar(&v.Signature, "signature", "", "signature from the checkout")
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	v.Amount = f.amount
	v.Donor = f.donorOrNil()
	v.Anonymous = f.anonymous

	res, err := a.Client.Donations.VerifyPayment(ctx, v)
	if errors.Is(err, api.ErrPaymentVerification) {
		return fmt.Errorf("payment was not confirmed, nothing was recorded: %w", err)
	}
	if err != nil {
		return err
	}
	a.printf("Thank you! Payment verified.")
	if res.Donation != nil && res.Donation.ID != "" {
		a.printf("Donation %s recorded.", res.Donation.ID)
	}
	return nil
}

func progress(ctx context.Context, a *App, args []string) error {
	if err := a.flags("progress").Parse(args); err != nil {
		return err
	}
	return a.render("progress", a.Client.Donations.GetDonationProgress(ctx))
}

func history(ctx context.Context, a *App, args []string) error {
	if err := a.flags("history").Parse(args); err != nil {
		return err
	}
	donations, err := a.Client.Donations.GetDonationHistory(ctx)
	if err != nil {
		return err
	}
	return a.render("history", donations)
}
