package dto

// LinkDto 资源链接(根文档使用)
type LinkDto struct {
	Href   string `json:"href" example:"http://localhost:8080/api/authors"`
	Rel    string `json:"rel" example:"authors"`
	Method string `json:"method" example:"GET"`
}

// DeleteCourseResult 删除课程的响应
type DeleteCourseResult struct {
	Result   string `json:"result" example:"deleted"`
	CourseID string `json:"courseId" example:"5b1c2b4d-48c7-402a-80c3-cc796ad49c6b"`
	AuthorID string `json:"authorId" example:"d28888e9-2ba9-473a-a40f-e38cb54f9b35"`
}
