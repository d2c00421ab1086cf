package cmd

import (
	"fmt"

	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/spf13/cobra"
)

var nftsCmd = &cobra.Command{
	Use:   "nfts",
	Short: "List the NFTs in the configured wallet",
	Long:  "Enumerate the wallet's tokens and their metadata. Tokens whose metadata cannot be resolved are skipped.",
	Run: func(cmd *cobra.Command, args []string) {
		deps := loadDeps(cmd.Context())
		defer deps.Close()

		if !deps.Config.WalletConfigured() {
			fmt.Println("💡 No wallet configured. Set wallet.rpc_url, wallet.contract and wallet.owner.")
		}

		items, err := services.NewNFTCollector(deps.Gateway, deps.Logger).Collect(cmd.Context())
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to list NFTs: %w", err))
		}

		if len(items) == 0 {
			fmt.Println("No NFTs found.")
			return
		}

		t := newTable("Token", "Name", "Image")
		for _, item := range items {
			t.Row(item.TokenID, truncateString(item.Name, 30), truncateString(item.Image, 60))
		}
		fmt.Println(t)
	},
}

func init() {
	rootCmd.AddCommand(nftsCmd)
}
