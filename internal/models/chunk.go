package models

import (
	"strconv"
	"strings"
)

// ChunkType is the semantic type of a chunk. The set is closed; the
// retriever keys its reordering on these values.
type ChunkType string

const (
	ChunkCohort     ChunkType = "cohort"
	ChunkBatch      ChunkType = "batch"
	ChunkPayment    ChunkType = "payment"
	ChunkCurriculum ChunkType = "curriculum"
	ChunkMentors    ChunkType = "mentors_instructors"
	ChunkPlacements ChunkType = "placements"
	ChunkReviews    ChunkType = "reviews"
)

// Chunk is the atomic retrievable unit: content plus typed metadata.
// Chunks are created once at knowledge-base build time and are
// immutable afterwards; a rebuild supersedes them.
type Chunk struct {
	Content string
	Meta    Meta
}

// Meta is implemented by exactly one metadata variant per ChunkType.
// Flatten converts the variant to the scalar map the vector store
// accepts: lists are comma-joined, absent values become empty strings.
type Meta interface {
	ChunkType() ChunkType
	Common() CommonMeta
	Flatten() map[string]string
}

// CommonMeta carries the fields every chunk shares. CohortName and
// SourceURL enable per-course filtering at query time.
type CommonMeta struct {
	CohortName string
	SourceURL  string
}

func (c CommonMeta) Common() CommonMeta { return c }

func (c CommonMeta) flat(t ChunkType, field string) map[string]string {
	return map[string]string{
		MetaKeyType:       string(t),
		MetaKeyCohortName: c.CohortName,
		MetaKeySourceURL:  c.SourceURL,
		MetaKeyField:      field,
	}
}

type CohortMeta struct {
	CommonMeta
}

func (m CohortMeta) ChunkType() ChunkType { return ChunkCohort }

func (m CohortMeta) Flatten() map[string]string {
	return m.flat(ChunkCohort, "cohort_info")
}

type BatchMeta struct {
	CommonMeta
	Cost           string
	BatchStartDate string
	CourseType     string
}

func (m BatchMeta) ChunkType() ChunkType { return ChunkBatch }

func (m BatchMeta) Flatten() map[string]string {
	f := m.flat(ChunkBatch, "batch_info")
	f[MetaKeyCost] = m.Cost
	f[MetaKeyBatchStartDate] = m.BatchStartDate
	f[MetaKeyCourseType] = m.CourseType
	return f
}

type PaymentMeta struct {
	CommonMeta
	EMIOptions []string
}

func (m PaymentMeta) ChunkType() ChunkType { return ChunkPayment }

func (m PaymentMeta) Flatten() map[string]string {
	f := m.flat(ChunkPayment, "payment_options")
	f[MetaKeyEMIOptions] = joinList(m.EMIOptions)
	return f
}

type CurriculumMeta struct {
	CommonMeta
	ItemIndex int
}

func (m CurriculumMeta) ChunkType() ChunkType { return ChunkCurriculum }

func (m CurriculumMeta) Flatten() map[string]string {
	f := m.flat(ChunkCurriculum, "curriculum")
	f[MetaKeyItemIndex] = strconv.Itoa(m.ItemIndex)
	return f
}

type MentorsMeta struct {
	CommonMeta
	Instructors []string
	Mentors     []string
}

func (m MentorsMeta) ChunkType() ChunkType { return ChunkMentors }

func (m MentorsMeta) Flatten() map[string]string {
	f := m.flat(ChunkMentors, "mentors_instructors")
	f[MetaKeyInstructors] = joinList(m.Instructors)
	f[MetaKeyMentors] = joinList(m.Mentors)
	return f
}

type PlacementsMeta struct {
	CommonMeta
}

func (m PlacementsMeta) ChunkType() ChunkType { return ChunkPlacements }

func (m PlacementsMeta) Flatten() map[string]string {
	return m.flat(ChunkPlacements, "placements")
}

type ReviewsMeta struct {
	CommonMeta
}

func (m ReviewsMeta) ChunkType() ChunkType { return ChunkReviews }

func (m ReviewsMeta) Flatten() map[string]string {
	return m.flat(ChunkReviews, "reviews")
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
