// Package chunker turns structured course records into self-describing
// text chunks for the vector index. Chunking is a pure function of the
// record: no network, no randomness.
package chunker

import (
	"fmt"
	"strings"

	"course-rag/internal/models"
)

const maxReviews = 3

// ChunkCourse splits one course record into typed chunks. Every chunk
// carries the record's cohort name and source URL so retrieval can
// filter per course later.
func ChunkCourse(rec models.CourseRecord) []models.Chunk {
	var chunks []models.Chunk

	name := rec.Cohort.CohortName
	if name == "" {
		name = "Unknown"
	}
	common := models.CommonMeta{CohortName: name, SourceURL: rec.SourceURL}

	if rec.Cohort.CohortName != "" || rec.Cohort.CohortDescription != "" {
		content := fmt.Sprintf("Cohort: %s\nDescription: %s",
			rec.Cohort.CohortName, rec.Cohort.CohortDescription)
		chunks = append(chunks, models.Chunk{
			Content: content,
			Meta:    models.CohortMeta{CommonMeta: common},
		})
	}

	if c := batchChunk(rec.Batch, name, common); c != nil {
		chunks = append(chunks, *c)
	}

	if len(rec.PaymentOptions.EMIOptions) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "Payment Options for %s:\n", name)
		b.WriteString("EMI Options:")
		for _, emi := range rec.PaymentOptions.EMIOptions {
			fmt.Fprintf(&b, "\n- %s", emi)
		}
		chunks = append(chunks, models.Chunk{
			Content: b.String(),
			Meta: models.PaymentMeta{
				CommonMeta: common,
				EMIOptions: rec.PaymentOptions.EMIOptions,
			},
		})
	}

	// One chunk per curriculum item so individual syllabus topics stay
	// retrievable on their own.
	idx := 0
	for _, item := range rec.Curriculum.Curriculum {
		if item == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content: fmt.Sprintf("Curriculum for %s: %s", name, item),
			Meta: models.CurriculumMeta{
				CommonMeta: common,
				ItemIndex:  idx,
			},
		})
		idx++
	}

	instructors := rec.MentorsInstructors.Instructors
	mentors := rec.MentorsInstructors.Mentors
	if len(instructors) > 0 || len(mentors) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "Instructors and Mentors for %s:", name)
		if len(instructors) > 0 {
			fmt.Fprintf(&b, "\nInstructors: %s", strings.Join(instructors, ", "))
		}
		if len(mentors) > 0 {
			fmt.Fprintf(&b, "\nMentors: %s", strings.Join(mentors, ", "))
		}
		chunks = append(chunks, models.Chunk{
			Content: b.String(),
			Meta: models.MentorsMeta{
				CommonMeta:  common,
				Instructors: instructors,
				Mentors:     mentors,
			},
		})
	}

	if rec.Placements.PlacementText != "" {
		chunks = append(chunks, models.Chunk{
			Content: fmt.Sprintf("Placement Information for %s: %s", name, rec.Placements.PlacementText),
			Meta:    models.PlacementsMeta{CommonMeta: common},
		})
	}

	if len(rec.Reviews.Reviews) > 0 {
		reviews := rec.Reviews.Reviews
		if len(reviews) > maxReviews {
			reviews = reviews[:maxReviews]
		}
		chunks = append(chunks, models.Chunk{
			Content: fmt.Sprintf("Reviews for %s: %s", name, strings.Join(reviews, "\n")),
			Meta:    models.ReviewsMeta{CommonMeta: common},
		})
	}

	return chunks
}

// batchChunk emits the batch chunk only when at least one field is
// present, so a label-only chunk never enters the index.
func batchChunk(batch models.Batch, name string, common models.CommonMeta) *models.Chunk {
	if batch.BatchStartDate == "" && batch.Cost == "" && batch.CourseType == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Batch Information for %s:", name)
	if batch.BatchStartDate != "" {
		fmt.Fprintf(&b, "\nStart Date: %s", batch.BatchStartDate)
	}
	if batch.Cost != "" {
		fmt.Fprintf(&b, "\nCost: %s", batch.Cost)
	}
	if batch.CourseType != "" {
		fmt.Fprintf(&b, "\nCourse Type: %s", batch.CourseType)
	}

	return &models.Chunk{
		Content: b.String(),
		Meta: models.BatchMeta{
			CommonMeta:     common,
			Cost:           batch.Cost,
			BatchStartDate: batch.BatchStartDate,
			CourseType:     batch.CourseType,
		},
	}
}

// ChunkAll chunks every record, preserving record order.
func ChunkAll(records []models.CourseRecord) []models.Chunk {
	var all []models.Chunk
	for _, rec := range records {
		all = append(all, ChunkCourse(rec)...)
	}
	return all
}
