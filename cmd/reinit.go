/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/cortex-be/config"
	"github.com/tieubaoca/cortex-be/database"
)

// reinitCmd represents the reinit command
var reinitCmd = &cobra.Command{
	Use:   "reinit",
	Short: "Drop and recreate the vector store schema",
	Long: `Deletes the document and section classes from the vector store and
recreates them empty. All ingested content is lost.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		if err := weaviateDb.ReInit(context.Background()); err != nil {
			log.Fatalf("Failed to reinitialize schema: %v", err)
		}
		fmt.Println("Vector store schema recreated")
	},
}

func init() {
	rootCmd.AddCommand(reinitCmd)
}
