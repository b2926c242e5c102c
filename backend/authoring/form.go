package authoring

// Form is the course form as posted by the educator UI.
type Form struct {
	Title       string        `json:"courseTitle"`
	Description string        `json:"courseDescription"`
	Price       float64       `json:"coursePrice"`
	Discount    float64       `json:"discount"`
	Published   *bool         `json:"isPublished"`
	Chapters    []ChapterForm `json:"courseContent"`
}

type ChapterForm struct {
	Title    string         `json:"chapterTitle"`
	Lectures []LectureInput `json:"chapterContent"`
}

// Draft replays the form through the draft operations, so every chapter and
// lecture passes the same checks as when added one by one. Courses are
// published unless the form says otherwise.
func (f Form) Draft() (*Draft, error) {
	d := &Draft{
		Title:       f.Title,
		Description: f.Description,
		Price:       f.Price,
		Discount:    f.Discount,
		Published:   f.Published == nil || *f.Published,
	}
	for _, ch := range f.Chapters {
		id, err := d.AddChapter(ch.Title)
		if err != nil {
			return nil, err
		}
		for _, l := range ch.Lectures {
			if _, err := d.AddLecture(id, l); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}
