package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"estate-go/internal/app"
	"estate-go/internal/config"
	"estate-go/internal/encryption"
	"estate-go/internal/form"
	"estate-go/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	if err := app.LoadEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an EstateApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "AddProperty", "Export").
func newApp(cmd *cobra.Command, operation string) (*app.EstateApp, error) {
	cfg, _, err := readConfig()
	if err != nil {
		return nil, err
	}

	archiveName, _ := cmd.Flags().GetString("archive")
	a, err := app.NewEstateApp(cfg, app.Options{Operation: operation, Archive: archiveName})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func readConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

var rootCmd = &cobra.Command{
	Use:          "estate",
	Short:        "Property catalog",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and export keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		skipKeys, _ := cmd.Flags().GetBool("skip-keys")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])

		if skipKeys {
			return nil
		}
		passphrase, err := readPassphrase("Passphrase for encrypted exports: ", true)
		if err != nil {
			return err
		}
		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}
		fmt.Printf("Keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Database:  %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Log Level: %s\n", cfg.Log.Level)
		fmt.Printf("Server:    %s\n", cfg.Server.Addr)
		fmt.Printf("Locale:    %s\n", cfg.Locale.Tag)
		fmt.Printf("Seed:      %v\n", cfg.Catalog.SeedOnEmpty)
		for _, a := range cfg.Archives {
			fmt.Printf("Archive:   %s (%s)\n", a.Name, a.Type)
		}
		return nil
	},
}

// property command
var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Manage listings",
}

var propertyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "AddProperty")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.AddProperty(formValues(cmd, false))
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", p.ID)
		return nil
	},
}

var propertyUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update fields of a listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := formValues(cmd, true)
		if len(values) == 0 {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}

		a, err := newApp(cmd, "UpdateProperty")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.UpdateProperty(args[0], values)
		if err != nil {
			return err
		}
		printProperty(os.Stdout, p, a.Formatter(), a.IsFavorite(p.ID))
		return nil
	},
}

var propertyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "DeleteProperty")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteProperty(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var propertyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "GetProperty")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.GetProperty(args[0])
		if err != nil {
			return err
		}
		printProperty(os.Stdout, p, a.Formatter(), a.IsFavorite(p.ID))
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Search, filter and sort listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		typeFilter, _ := cmd.Flags().GetString("type")
		sortKey, _ := cmd.Flags().GetString("sort")

		a, err := newApp(cmd, "Search")
		if err != nil {
			return err
		}
		defer a.Close()

		props, err := a.Search(search, typeFilter, sortKey)
		if err != nil {
			return err
		}
		printProperties(os.Stdout, props, a.Formatter(), a.IsFavorite)
		return nil
	},
}

// fav command
var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorites",
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Add or remove a listing from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ToggleFavorite")
		if err != nil {
			return err
		}
		defer a.Close()

		on, err := a.ToggleFavorite(args[0])
		if err != nil {
			return err
		}
		if on {
			fmt.Printf("%s added to favorites\n", args[0])
		} else {
			fmt.Printf("%s removed from favorites\n", args[0])
		}
		return nil
	},
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Favorites")
		if err != nil {
			return err
		}
		defer a.Close()

		printProperties(os.Stdout, a.Favorites(), a.Formatter(), func(string) bool { return true })
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.Stats()
		fmt.Printf("Total:     %d\n", st.Total)
		fmt.Printf("For sale:  %d\n", st.Sale)
		fmt.Printf("For rent:  %d\n", st.Rent)
		fmt.Printf("Favorites: %d\n", st.Favorites)
		return nil
	},
}

// seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample listings into an empty catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Seed")
		if err != nil {
			return err
		}
		defer a.Close()

		seeded, err := a.Seed()
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Println("Catalog is not empty; nothing seeded.")
			return nil
		}
		fmt.Printf("Seeded %d listings\n", a.Stats().Total)
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export [NAME]",
	Short: "Export the catalog to an archive",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")
		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		a, err := newApp(cmd, "Export")
		if err != nil {
			return err
		}
		defer a.Close()

		object, err := a.Export(name, encrypt)
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s:%s\n", a.ArchiveName(), object)
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import NAME",
	Short: "Replace the catalog with an export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var passphrase string
		if strings.HasSuffix(args[0], ".age") {
			var err error
			if passphrase, err = readPassphrase("Passphrase: ", false); err != nil {
				return err
			}
		}

		a, err := newApp(cmd, "Import")
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Import(args[0], passphrase)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d listings from %s:%s\n", n, a.ArchiveName(), args[0])
		return nil
	},
}

// archives command
var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List configured export archives",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}
		if len(cfg.Archives) == 0 {
			fmt.Println("No archives configured.")
			return nil
		}
		for _, a := range cfg.Archives {
			location := a.FSRoot
			if a.Type == "s3" {
				location = "s3://" + a.S3Bucket + "/" + a.S3Prefix
			}
			fmt.Printf("%-12s %-10s %s\n", a.Name, a.Type, location)
		}
		return nil
	},
}

var archivesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that an archive is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ValidateArchive")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ValidateArchive(); err != nil {
			return fmt.Errorf("archive %s: %w", a.ArchiveName(), err)
		}
		fmt.Printf("Archive %s is ready\n", a.ArchiveName())
		return nil
	},
}

var archivesExportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List the exports stored in an archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListExports")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.ListExports()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No exports.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %8d  %s\n", e.ModifiedAt.Format("2006-01-02 15:04:05"), e.Size, e.Name)
		}
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup PATH",
	Short: "Copy the catalog database to PATH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Backup(args[0]); err != nil {
			return err
		}
		fmt.Printf("Catalog backed up to %s\n", args[0])
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Status")
		if err != nil {
			return err
		}
		defer a.Close()

		savedAt, ok, err := a.LastSaved()
		if err != nil {
			return err
		}
		st := a.Stats()
		fmt.Printf("Listings:   %d (%d favorited)\n", st.Total, st.Favorites)
		if ok {
			fmt.Printf("Last saved: %s\n", savedAt.Local().Format("2006-01-02 15:04:05"))
		} else {
			fmt.Println("Last saved: never")
		}
		if name := a.ArchiveName(); name != "" {
			fmt.Printf("Archive:    %s\n", name)
		}
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog API for the UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		a, err := app.NewEstateApp(cfg, app.Options{Operation: "Serve"})
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		router := server.NewRouter(a, a.Formatter(), a.Logger(), cfg.Server.AllowedOrigins)
		srv, err := server.NewServer(cfg.Server, router, a.Logger())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, nil)
	},
}

// fieldFlags maps property flags to form fields.
var fieldFlags = []struct {
	flag, field, usage string
}{
	{"title", form.FieldTitle, "Listing title"},
	{"description", form.FieldDescription, "Free-text description"},
	{"price", form.FieldPrice, "Price (sale total or monthly rent)"},
	{"type", form.FieldKind, "sale or rent"},
	{"location", form.FieldLocation, "Location"},
	{"bedrooms", form.FieldBedrooms, "Number of bedrooms"},
	{"bathrooms", form.FieldBathrooms, "Number of bathrooms"},
	{"area", form.FieldArea, "Area in square meters"},
	{"image", form.FieldImage, "Image URL"},
	{"features", form.FieldFeatures, "Comma-separated features"},
}

// formValues collects the property flags. With onlyChanged set, flags the
// user did not pass are left out so updates touch only supplied fields.
func formValues(cmd *cobra.Command, onlyChanged bool) form.Values {
	values := form.Values{}
	for _, f := range fieldFlags {
		if onlyChanged && !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.flag)
		values.Set(f.field, v)
	}
	return values
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("skip-keys", false, "Do not generate export encryption keys")
	configCmd.AddCommand(configListCmd)

	// property subcommands
	for _, c := range []*cobra.Command{propertyAddCmd, propertyUpdateCmd} {
		for _, f := range fieldFlags {
			c.Flags().String(f.flag, "", f.usage)
		}
	}
	propertyCmd.AddCommand(propertyAddCmd)
	propertyCmd.AddCommand(propertyUpdateCmd)
	propertyCmd.AddCommand(propertyDeleteCmd)
	propertyCmd.AddCommand(propertyShowCmd)

	// fav subcommands
	favCmd.AddCommand(favToggleCmd)
	favCmd.AddCommand(favListCmd)

	// archives subcommands
	archivesCmd.AddCommand(archivesCheckCmd)
	archivesCmd.AddCommand(archivesExportsCmd)

	// root commands
	rootCmd.PersistentFlags().String("archive", "", "Archive to use (default: first configured)")
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(propertyCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("search", "q", "", "Match title or location")
	listCmd.Flags().StringP("type", "t", "all", "all, sale or rent")
	listCmd.Flags().StringP("sort", "s", "newest", "newest, price-low or price-high")
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolP("encrypt", "e", false, "Encrypt the export with the public key")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(archivesCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides [server] addr)")
}
