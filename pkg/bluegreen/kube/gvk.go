package kube

import (
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// resolveResourceName resolves a GVK to its resource name (plural form),
// preferring API discovery and falling back to naive pluralization.
func (a *Applier) resolveResourceName(gvk schema.GroupVersionKind) string {
	cacheKey := gvk.String()

	a.cacheMu.RLock()
	if resource, found := a.resourceNameCache[cacheKey]; found {
		a.cacheMu.RUnlock()
		return resource
	}
	a.cacheMu.RUnlock()

	resource := strings.ToLower(gvk.Kind) + "s"
	if a.discovery != nil {
		apiResourceLists, err := a.discovery.ServerPreferredResources()
		if err == nil {
			for _, apiResourceList := range apiResourceLists {
				gv, err := schema.ParseGroupVersion(apiResourceList.GroupVersion)
				if err != nil {
					continue
				}
				if gv.Group != gvk.Group || gv.Version != gvk.Version {
					continue
				}
				for _, apiResource := range apiResourceList.APIResources {
					if apiResource.Kind == gvk.Kind {
						resource = apiResource.Name
						break
					}
				}
			}
		}
	}

	a.cacheMu.Lock()
	a.resourceNameCache[cacheKey] = resource
	a.cacheMu.Unlock()

	return resource
}
