package ds

import (
	"os"

	"github.com/ValentinKolb/dDS/cmd/util"
	"github.com/ValentinKolb/dDS/lib/datastore"
	"github.com/ValentinKolb/dDS/lib/logging"
	"github.com/spf13/cobra"
)

var (
	store datastore.IDatastore
	conf  *util.DatastoreConfig

	// DatastoreCommands represents the datastore command group
	DatastoreCommands = &cobra.Command{
		Use:                "ds",
		Short:              "Perform datastore operations",
		PersistentPreRunE:  openStore,
		PersistentPostRunE: closeStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add datastore flags to the ds command
	util.SetupDatastoreFlags(DatastoreCommands)

	// Add subcommands
	DatastoreCommands.AddCommand(putCmd)
	DatastoreCommands.AddCommand(getCmd)
	DatastoreCommands.AddCommand(delCmd)
	DatastoreCommands.AddCommand(hasCmd)
	DatastoreCommands.AddCommand(queryCmd)
	DatastoreCommands.AddCommand(perfTestCmd)
}

// openStore builds the configured datastore chain
func openStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// a failed command skips closeStore
	if store != nil {
		_ = datastore.Close(store)
		store = nil
	}

	conf = util.GetDatastoreConfig()
	if err := logging.InitLoggers(conf.LogLevel); err != nil {
		return err
	}

	var err error
	store, err = util.OpenDatastore(conf)
	return err
}

// closeStore closes the datastore chain and prints the metrics if requested
func closeStore(_ *cobra.Command, _ []string) error {
	if store == nil {
		return nil
	}
	err := datastore.Close(store)
	store = nil
	if conf.Metrics {
		util.WriteMetrics(os.Stderr)
	}
	return err
}
