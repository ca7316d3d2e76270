package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"contentguard/internal/audit"
	"contentguard/internal/config"
	"contentguard/pkg/logger"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "contentguard",
		Short: "Audit blog topic ideas against published posts",
		Long: `ContentGuard loads a blog's post sitemaps and checks proposed keywords
for exact, partial or similar existing posts before anything new gets written.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Debug)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./contentguard.yaml)")
	root.PersistentFlags().Bool("debug", false, "log every failed sitemap attempt")
	root.PersistentFlags().StringSlice("sitemap", nil, "sitemap URL to load (repeatable, replaces the configured list)")
	root.PersistentFlags().Float64("threshold", 0.7, "similarity a slug must exceed to be reported as a similar topic")

	_ = a.v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	_ = a.v.BindPFlag("sitemaps", root.PersistentFlags().Lookup("sitemap"))
	_ = a.v.BindPFlag("similarity_threshold", root.PersistentFlags().Lookup("threshold"))

	root.AddCommand(newAuditCmd(a), newInventoryCmd(a))
	return root
}

func (a *app) service() *audit.Service {
	return audit.NewFromConfig(a.cfg, a.log)
}
