package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phasefield/dnsinit/InputParameters"
)

var (
	cfgFile    string
	profileDir = "."
	prof       interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:   "dnsinit",
	Short: "Phase field initial conditions from macroscale DNS data",
	Long: `
Builds the level set psi and the pulling velocity U of a phase field
simulation from the temperature field of a macroscale thermal simulation.

dnsinit reconstruct -i macrodata.nc -o AM_deep.nc`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		log.SetLevel(log.InfoLevel)
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
		switch p := viper.GetString("profile"); p {
		case "":
		case "cpu":
			prof = profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook)
		case "mem":
			prof = profile.Start(profile.MemProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook)
		default:
			err = fmt.Errorf("unknown profile %q, want cpu or mem", p)
		}
		return
	},
}

// Execute adds all child commands to the root command and runs it. A
// profile is flushed whether or not the command succeeded.
func Execute() (err error) {
	err = rootCmd.Execute()
	stopProfile()
	return
}

func stopProfile() {
	if prof != nil {
		prof.Stop()
		prof = nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dnsinit.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile to the working directory")
	rootCmd.PersistentFlags().StringP("parameters", "P", "", "YAML file with the Phys, Simu and Reconstruct parameters")
	for _, name := range []string{"verbose", "profile", "parameters"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".dnsinit")
	}
	viper.SetEnvPrefix("dnsinit")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// loadParameters starts from the defaults and overlays the parameter file
func loadParameters() (ip *InputParameters.Parameters, err error) {
	ip = InputParameters.NewParameters()
	path := viper.GetString("parameters")
	if path == "" {
		return
	}
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return nil, err
	}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return
}
