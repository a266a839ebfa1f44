package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rowanvale/lexdrill/internal/config"
	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/platform/logger"
	"github.com/rowanvale/lexdrill/internal/platform/postgres"
	"github.com/rowanvale/lexdrill/internal/platform/sqlite"
	"github.com/rowanvale/lexdrill/internal/store"
	"github.com/rowanvale/lexdrill/migrations"
)

// wordlistFile is the on-disk wordlist format: list metadata plus word
// entries with translation, phonetic, and example sentences.
type wordlistFile struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Words    []struct {
		Word        string `json:"word"`
		Translation string `json:"translation_cn"`
		Phonetic    string `json:"phonetic"`
		Examples    []struct {
			Sentence    string `json:"sentence"`
			Translation string `json:"translation_cn"`
		} `json:"examples"`
	} `json:"words"`
}

var importListID string

var importCmd = &cobra.Command{
	Use:   "import <wordlist.json>",
	Short: "Import a wordlist JSON file into the word store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log, err := logger.Setup(cfg.Server.LogLevel)
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}

		raw, err := os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("read wordlist file: %w", err)
		}
		var list wordlistFile
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("parse wordlist file: %w", err)
		}

		listID := importListID
		if listID == "" {
			listID = list.Name
		}
		if listID == "" {
			return fmt.Errorf("wordlist has no name; pass --list to set one")
		}

		words := make([]*domain.Word, 0, len(list.Words))
		for _, entry := range list.Words {
			examples := make([]string, 0, len(entry.Examples))
			for _, ex := range entry.Examples {
				examples = append(examples, ex.Sentence)
			}
			words = append(words, &domain.Word{
				ListID:      listID,
				Text:        entry.Word,
				Translation: entry.Translation,
				Phonetic:    entry.Phonetic,
				Examples:    examples,
			})
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(db, cfg.Database.Driver); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
		}

		var wordStore store.WordStore
		if cfg.Database.Driver == "postgres" {
			wordStore = postgres.NewWordStore(db, log)
		} else {
			wordStore = sqlite.NewWordStore(db, log)
		}

		if err := wordStore.CreateMultiple(cmd.Context(), words); err != nil {
			return fmt.Errorf("import words: %w", err)
		}

		log.Info("wordlist imported",
			slog.String("list_id", listID),
			slog.Int("words", len(words)))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importListID, "list", "", "list ID to import into (default: wordlist name)")
}
