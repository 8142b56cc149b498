package cmd

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/florist/internal/checkout"
	"github.com/Alturino/florist/internal/common/constants"
	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/log"
)

type checkoutFlags struct {
	address  checkout.Address
	method   string
	bankCode string
}

func newCheckoutCommand() *cobra.Command {
	flags := checkoutFlags{}
	checkoutCmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckout(cmd, flags)
		},
	}
	checkoutCmd.Flags().StringVar(&flags.address.FullName, "name", "", "recipient full name")
	checkoutCmd.Flags().StringVar(&flags.address.PhoneNumber, "phone", "", "recipient phone number")
	checkoutCmd.Flags().StringVar(&flags.address.StreetAddress, "street", "", "street address")
	checkoutCmd.Flags().StringVar(&flags.address.City, "city", "", "city")
	checkoutCmd.Flags().
		BoolVar(&flags.address.CallRecipient, "call-recipient", false, "call the recipient before delivery")
	checkoutCmd.Flags().StringVar(&flags.method, "method", string(checkout.PaymentMethodCOD), "COD, PAYPAL or VNPAY, VNPAY requires session.storage=redis")
	checkoutCmd.Flags().StringVar(&flags.bankCode, "bank", "", "VNPay bank code: VNPAYQR, VNBANK or INTCARD")

	var sessionID, responseCode string
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Finish a VNPay checkout from the provider's response code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckoutReconcile(cmd, sessionID, responseCode)
		},
	}
	reconcileCmd.Flags().StringVar(&sessionID, "sid", "", "checkout session id")
	reconcileCmd.Flags().StringVar(&responseCode, "code", "", "vnp_ResponseCode returned by VNPay")
	reconcileCmd.MarkFlagRequired("sid")
	reconcileCmd.MarkFlagRequired("code")

	abandonCmd := &cobra.Command{
		Use:   "abandon <sessionId>",
		Short: "Drop a checkout left waiting for the payment provider",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckoutAbandon,
	}

	statusCmd := &cobra.Command{
		Use:   "status <paymentId>",
		Short: "Show the backend status of a payment",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckoutStatus,
	}

	checkoutCmd.AddCommand(reconcileCmd, abandonCmd, statusCmd)
	return checkoutCmd
}

// checkSessionStorage rejects VNPay when the pending order would be lost on
// exit, since reconcile runs in a later process.
func checkSessionStorage(method checkout.PaymentMethod, storage string) error {
	if method == checkout.PaymentMethodVnpay && storage == storageMemory {
		return fmt.Errorf(
			"failed starting checkout with paymentMethod=%s sessionStorage=%s with error=%w",
			method,
			storage,
			commonErrors.ErrVolatileSessionStorage,
		)
	}
	return nil
}

func runCheckout(cmd *cobra.Command, flags checkoutFlags) error {
	method, err := checkout.ParsePaymentMethod(flags.method)
	if err != nil {
		return err
	}
	bankCode, err := checkout.ParseBankCode(flags.bankCode)
	if err != nil {
		return err
	}

	c := cmd.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCheckout).
		Str(log.KeyTag, "main runCheckout").
		Str(log.KeyPaymentMethod, string(method)).
		Logger()
	c = logger.WithContext(c)

	a, err := newApp(c, configName, printNavigator(cmd))
	if err != nil {
		return err
	}
	defer a.Close(c)

	if err := checkSessionStorage(method, a.cfg.Session.Storage); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	s, err := a.flow.Enter(c)
	if err != nil {
		return err
	}
	if err := a.flow.SubmitShipping(c, s, flags.address); err != nil {
		return err
	}
	if err := a.flow.SelectPayment(s, method, bankCode); err != nil {
		return err
	}
	if err := a.flow.SubmitPayment(c, s); err != nil {
		printSession(cmd.OutOrStdout(), s)
		return err
	}

	printSession(cmd.OutOrStdout(), s)
	if s.Step == checkout.StepPayment {
		fmt.Fprintf(
			cmd.OutOrStdout(),
			"\nwaiting for VNPay, finish with: %s checkout reconcile --sid %s --code <vnp_ResponseCode>\n",
			constants.AppName,
			s.ID,
		)
	}
	return nil
}

func runCheckoutReconcile(cmd *cobra.Command, sessionID string, responseCode string) error {
	c := cmd.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCheckout).
		Str(log.KeyTag, "main runCheckoutReconcile").
		Logger()
	c = logger.WithContext(c)

	a, err := newApp(c, configName, printNavigator(cmd))
	if err != nil {
		return err
	}
	defer a.Close(c)

	result, err := a.flow.Reconcile(c, url.Values{
		checkout.QuerySessionID:    {sessionID},
		checkout.QueryResponseCode: {responseCode},
	})
	if err != nil {
		return err
	}

	printSession(cmd.OutOrStdout(), result.Session)
	if result.Outcome != checkout.StepSuccess {
		fmt.Fprintln(cmd.OutOrStdout(), "\npayment was not completed, run checkout again to pick another method")
	}
	return nil
}

func runCheckoutAbandon(cmd *cobra.Command, args []string) error {
	sessionID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("failed parsing sessionId=%s with error=%w", args[0], err)
	}

	c := cmd.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCheckout).
		Str(log.KeyTag, "main runCheckoutAbandon").
		Logger()
	c = logger.WithContext(c)

	a, err := newApp(c, configName, printNavigator(cmd))
	if err != nil {
		return err
	}
	defer a.Close(c)

	return a.flow.Abandon(c, sessionID)
}

func runCheckoutStatus(cmd *cobra.Command, args []string) error {
	paymentID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("failed parsing paymentId=%s with error=%w", args[0], err)
	}

	c := cmd.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCheckout).
		Str(log.KeyTag, "main runCheckoutStatus").
		Logger()
	c = logger.WithContext(c)

	a, err := newApp(c, configName, printNavigator(cmd))
	if err != nil {
		return err
	}
	defer a.Close(c)

	status, err := a.client.GetPaymentStatus(c, paymentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "payment %s is %s\n", status.PaymentID, status.Status)
	return nil
}
