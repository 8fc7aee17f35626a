package cli

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/deploylab/bluegreen/pkg/bluegreen"
	"github.com/deploylab/bluegreen/pkg/bluegreen/database"
	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
	"github.com/deploylab/bluegreen/pkg/bluegreen/kube"
	"github.com/deploylab/bluegreen/pkg/bluegreen/rollouts"
)

// runtime carries the dependencies a subcommand needs, built once from the
// persistent flags. Kubernetes clients are created lazily so offline
// commands (scaffold, journal) never touch the cluster.
type runtime struct {
	cfg      bluegreen.Config
	logger   logr.Logger
	db       *database.DB
	recorder journal.Recorder

	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg := bluegreen.DefaultConfig()

	flags := cmd.Flags()
	applyFlag(flags, "app", &cfg.AppName)
	applyFlag(flags, "namespace", &cfg.Namespace)
	applyFlag(flags, "kubeconfig", &cfg.Kubeconfig)
	applyFlag(flags, "data-dir", &cfg.DataPath)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := bluegreen.NewLogger(debug)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DataPath+"/journal", logger)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		recorder: journal.NewStore(db, logger),
	}, nil
}

// applyFlag overwrites dst when the flag has a non-empty value.
func applyFlag(flags *pflag.FlagSet, name string, dst *string) {
	if v, err := flags.GetString(name); err == nil && v != "" {
		*dst = v
	}
}

func (rt *runtime) close() {
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			rt.logger.Error(err, "failed to close journal database")
		}
	}
}

func (rt *runtime) kube() (kubernetes.Interface, dynamic.Interface, error) {
	if rt.clientset != nil {
		return rt.clientset, rt.dynamicClient, nil
	}

	clientset, dynamicClient, err := kube.NewClients(rt.cfg.Kubeconfig, rt.logger)
	if err != nil {
		return nil, nil, err
	}
	rt.clientset = clientset
	rt.dynamicClient = dynamicClient
	return clientset, dynamicClient, nil
}

func (rt *runtime) rollouts() (*rollouts.Client, error) {
	clientset, dynamicClient, err := rt.kube()
	if err != nil {
		return nil, err
	}
	return rollouts.NewClient(dynamicClient, clientset, rt.logger, rt.recorder), nil
}
