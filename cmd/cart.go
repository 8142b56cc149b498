package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/florist/internal/common/constants"
	"github.com/Alturino/florist/internal/log"
)

var errCartMutation = errors.New("cart was not changed, see log for details")

func newCartCommand() *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the shopping cart",
	}
	cartCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart with current dynamic prices",
			Args:  cobra.NoArgs,
			RunE:  runCartShow,
		},
		&cobra.Command{
			Use:   "add <productId> <quantity>",
			Short: "Add a product to the cart",
			Args:  cobra.ExactArgs(2),
			RunE:  runCartAdd,
		},
		&cobra.Command{
			Use:   "update <lineItemId> <quantity>",
			Short: "Change the quantity of a line item, 0 removes it",
			Args:  cobra.ExactArgs(2),
			RunE:  runCartUpdate,
		},
		&cobra.Command{
			Use:   "remove <lineItemId>",
			Short: "Remove a line item from the cart",
			Args:  cobra.ExactArgs(1),
			RunE:  runCartRemove,
		},
	)
	return cartCmd
}

func parseIDAndQuantity(args []string) (uuid.UUID, int, error) {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("failed parsing id=%s with error=%w", args[0], err)
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("failed parsing quantity=%s with error=%w", args[1], err)
	}
	return id, quantity, nil
}

func runCartShow(cmd *cobra.Command, args []string) error {
	c := cmd.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCart).
		Str(log.KeyTag, "main runCartShow").
		Logger()
	c = logger.WithContext(c)

	a, err := newApp(c, configName, printNavigator(cmd))
	if err != nil {
		return err
	}
	defer a.Close(c)

	printSnapshot(cmd.OutOrStdout(), a.cart.Refresh(c))
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	productID, quantity, err := parseIDAndQuantity(args)
	if err != nil {
		return err
	}

	c := cmd.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCart).
		Str(log.KeyTag, "main runCartAdd").
		Logger()
	c = logger.WithContext(c)

	a, err := newApp(c, configName, printNavigator(cmd))
	if err != nil {
		return err
	}
	defer a.Close(c)

	ok := a.cart.AddItem(c, productID, quantity)
	printSnapshot(cmd.OutOrStdout(), a.cart.Snapshot())
	if !ok {
		return errCartMutation
	}
	return nil
}

func runCartUpdate(cmd *cobra.Command, args []string) error {
	lineItemID, quantity, err := parseIDAndQuantity(args)
	if err != nil {
		return err
	}

	c := cmd.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCart).
		Str(log.KeyTag, "main runCartUpdate").
		Logger()
	c = logger.WithContext(c)

	a, err := newApp(c, configName, printNavigator(cmd))
	if err != nil {
		return err
	}
	defer a.Close(c)

	ok := a.cart.UpdateItem(c, lineItemID, quantity)
	printSnapshot(cmd.OutOrStdout(), a.cart.Snapshot())
	if !ok {
		return errCartMutation
	}
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	lineItemID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("failed parsing id=%s with error=%w", args[0], err)
	}

	c := cmd.Context()
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCart).
		Str(log.KeyTag, "main runCartRemove").
		Logger()
	c = logger.WithContext(c)

	a, err := newApp(c, configName, printNavigator(cmd))
	if err != nil {
		return err
	}
	defer a.Close(c)

	ok := a.cart.RemoveItem(c, lineItemID)
	printSnapshot(cmd.OutOrStdout(), a.cart.Snapshot())
	if !ok {
		return errCartMutation
	}
	return nil
}
