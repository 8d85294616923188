package page

import (
	"github.com/meshforge/nanitepack/cluster"
	"github.com/meshforge/nanitepack/errs"
	"github.com/meshforge/nanitepack/section"
)

// Page is an ordered, GPU-size-budgeted group of clusters (component G's
// output unit). Every page this packer emits satisfies
// total_gpu_size <= RootPageGPUSize and cluster_count <= RootPageMaxClusters.
type Page struct {
	Clusters []*cluster.Cluster
	Infos    []*cluster.EncodingInfo
}

// GPUTotal sums the GPU sizes of every cluster in the page.
func (p *Page) GPUTotal() section.PageSections {
	var total section.PageSections
	for _, info := range p.Infos {
		total.Add(info.GPUSizes)
	}
	return total
}

// NumVertices sums the vertex counts of every cluster in the page, used by
// the top-level driver to build the page-to-page vertex offset table.
func (p *Page) NumVertices() int {
	n := 0
	for _, c := range p.Clusters {
		n += c.NumVertices()
	}
	return n
}

// PackPages groups clusters into pages (component G): a new page opens
// whenever the open one already holds RootPageMaxClusters clusters or
// adding the next cluster would push its cumulative GPU size past
// RootPageGPUSize. clusters and infos must be parallel slices of equal
// length.
func PackPages(clusters []*cluster.Cluster, infos []*cluster.EncodingInfo) ([]*Page, error) {
	if len(clusters) != len(infos) {
		return nil, errs.NewConsistency("page.clusters_infos_mismatch", "clusters and infos must be parallel slices")
	}
	if len(clusters) == 0 {
		return nil, errs.ErrEmptyMesh
	}

	var pages []*Page
	var open *Page
	var runningTotal uint32

	for i, c := range clusters {
		size := infos[i].GPUSizes.Total()
		if size > section.RootPageGPUSize {
			return nil, errs.NewConsistency("page.cluster_exceeds_budget", "a single cluster's GPU size exceeds RootPageGPUSize")
		}

		if open == nil || len(open.Clusters) >= section.RootPageMaxClusters || runningTotal+size > section.RootPageGPUSize {
			open = &Page{}
			pages = append(pages, open)
			runningTotal = 0
		}

		open.Clusters = append(open.Clusters, c)
		open.Infos = append(open.Infos, infos[i])
		runningTotal += size
	}

	return pages, nil
}
