package cluster

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
)

const (
	// ArgoCDNamespace is where the Argo CD controller is installed
	ArgoCDNamespace = "argocd"

	// RolloutsNamespace is where the Argo Rollouts controller is installed
	RolloutsNamespace = "argo-rollouts"

	// ArgoCDManifestURL is the upstream install manifest for Argo CD
	ArgoCDManifestURL = "https://raw.githubusercontent.com/argoproj/argo-cd/stable/manifests/install.yaml"

	// RolloutsManifestURL is the upstream install manifest for Argo Rollouts
	RolloutsManifestURL = "https://github.com/argoproj/argo-rollouts/releases/latest/download/install.yaml"

	// DefaultKubectl is the binary used for install and port-forward steps
	DefaultKubectl = "kubectl"
)

// PortForward describes one local-to-cluster tunnel kept open by the
// Manager while the context lives.
type PortForward struct {
	Namespace  string
	Target     string // e.g. "svc/argocd-server"
	LocalPort  int
	RemotePort int
}

// DefaultForwards exposes the Argo CD UI on 8080 and the demo app's active
// service on 3000.
func DefaultForwards(appNamespace, appName string) []PortForward {
	return []PortForward{
		{Namespace: ArgoCDNamespace, Target: "svc/argocd-server", LocalPort: 8080, RemotePort: 443},
		{Namespace: appNamespace, Target: "svc/" + appName + "-active", LocalPort: 3000, RemotePort: 80},
	}
}

// Manager bootstraps and tears down the tutorial cluster: the two Argo
// controller installs plus the application namespace.
type Manager struct {
	clientset kubernetes.Interface
	runner    CommandRunner
	logger    logr.Logger
	recorder  journal.Recorder
	kubectl   string
}

// NewManager creates a cluster manager. The recorder may be nil.
func NewManager(clientset kubernetes.Interface, runner CommandRunner, logger logr.Logger, recorder journal.Recorder) *Manager {
	return &Manager{
		clientset: clientset,
		runner:    runner,
		logger:    logger.WithName("cluster"),
		recorder:  recorder,
		kubectl:   DefaultKubectl,
	}
}

// SetKubectl overrides the kubectl binary path.
func (m *Manager) SetKubectl(path string) {
	if path != "" {
		m.kubectl = path
	}
}

type installStep struct {
	namespace string
	manifest  string
}

// Up creates the controller namespaces, installs Argo CD and Argo Rollouts,
// and ensures the application namespace exists. The first failing step
// aborts the run.
func (m *Manager) Up(ctx context.Context, appNamespace string) error {
	steps := []installStep{
		{namespace: ArgoCDNamespace, manifest: ArgoCDManifestURL},
		{namespace: RolloutsNamespace, manifest: RolloutsManifestURL},
	}

	for _, step := range steps {
		if err := m.ensureNamespace(ctx, step.namespace); err != nil {
			journal.RecordSafe(m.recorder, m.logger, journal.Failure("cluster-up", step.namespace, "Failed to create namespace", err))
			return err
		}

		m.logger.Info("Installing controller", "namespace", step.namespace, "manifest", step.manifest)
		if err := m.runner.Run(ctx, m.kubectl, "apply", "-n", step.namespace, "-f", step.manifest); err != nil {
			journal.RecordSafe(m.recorder, m.logger, journal.Failure("cluster-up", step.namespace, "Controller install failed", err))
			return err
		}

		journal.RecordSafe(m.recorder, m.logger, journal.Success("cluster-up", step.namespace, "Installed controller from "+step.manifest))
	}

	if appNamespace != "" {
		if err := m.ensureNamespace(ctx, appNamespace); err != nil {
			journal.RecordSafe(m.recorder, m.logger, journal.Failure("cluster-up", appNamespace, "Failed to create namespace", err))
			return err
		}
		journal.RecordSafe(m.recorder, m.logger, journal.Success("cluster-up", appNamespace, "Application namespace ready"))
	}

	return nil
}

// Down deletes the controller namespaces and the application namespace.
// Namespaces that are already gone are skipped.
func (m *Manager) Down(ctx context.Context, appNamespace string) error {
	namespaces := []string{ArgoCDNamespace, RolloutsNamespace}
	if appNamespace != "" {
		namespaces = append(namespaces, appNamespace)
	}

	for _, ns := range namespaces {
		m.logger.Info("Deleting namespace", "namespace", ns)

		err := m.clientset.CoreV1().Namespaces().Delete(ctx, ns, metav1.DeleteOptions{})
		if apierrors.IsNotFound(err) {
			m.logger.Info("Namespace already absent", "namespace", ns)
			continue
		}
		if err != nil {
			journal.RecordSafe(m.recorder, m.logger, journal.Failure("cluster-down", ns, "Failed to delete namespace", err))
			return apperrors.WrapKubernetes(err, "deleting namespace "+ns)
		}

		journal.RecordSafe(m.recorder, m.logger, journal.Success("cluster-down", ns, "Namespace deleted"))
	}

	return nil
}

// Forward opens every tunnel and blocks until the context is cancelled or
// any tunnel exits on its own.
func (m *Manager) Forward(ctx context.Context, forwards []PortForward) error {
	if len(forwards) == 0 {
		return fmt.Errorf("%w: no port-forwards configured", apperrors.ErrInvalid)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, len(forwards))

	for _, pf := range forwards {
		m.logger.Info("Port-forwarding",
			"namespace", pf.Namespace,
			"target", pf.Target,
			"local", pf.LocalPort,
			"remote", pf.RemotePort)

		wait, err := m.runner.Start(ctx, m.kubectl,
			"port-forward",
			"-n", pf.Namespace,
			pf.Target,
			fmt.Sprintf("%d:%d", pf.LocalPort, pf.RemotePort))
		if err != nil {
			return err
		}

		go func() { done <- wait() }()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-done:
		// one tunnel died; tear down the rest
		cancel()
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: port-forward exited unexpectedly", apperrors.ErrExternal)
	}
}

func (m *Manager) ensureNamespace(ctx context.Context, name string) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}

	_, err := m.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		m.logger.Info("Namespace already exists", "namespace", name)
		return nil
	}
	if err != nil {
		return apperrors.WrapKubernetes(err, "creating namespace "+name)
	}

	m.logger.Info("Created namespace", "namespace", name)
	return nil
}
