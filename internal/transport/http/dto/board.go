package dto

import (
	"github.com/tiagocodinha/StagelinkApproval/internal/domain/model"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/board"
)

type MonthFolderResponse struct {
	Month string                `json:"month"`
	Items []ContentItemResponse `json:"items"`
}

type ClientFolderResponse struct {
	Client string                `json:"client"`
	Months []MonthFolderResponse `json:"months"`
}

type FolderSelectionResponse struct {
	Client string `json:"client,omitempty"`
	Month  string `json:"month,omitempty"`
}

type FoldersResponse struct {
	Folders  []ClientFolderResponse  `json:"folders"`
	Selected FolderSelectionResponse `json:"selected"`
}

func FoldersFromView(view board.FoldersView) FoldersResponse {
	resp := FoldersResponse{
		Folders: make([]ClientFolderResponse, 0, len(view.Folders)),
		Selected: FolderSelectionResponse{
			Client: view.Selected.Client,
			Month:  view.Selected.Month,
		},
	}
	for _, folder := range view.Folders {
		months := make([]MonthFolderResponse, 0, len(folder.Months))
		for _, month := range folder.Months {
			months = append(months, MonthFolderResponse{
				Month: month.Month,
				Items: ContentItemsFromModels(month.Items),
			})
		}
		resp.Folders = append(resp.Folders, ClientFolderResponse{Client: folder.Client, Months: months})
	}
	return resp
}

type DateBucketResponse struct {
	Date  string                `json:"date"`
	Items []ContentItemResponse `json:"items"`
}

type CalendarResponse struct {
	Days []DateBucketResponse `json:"days"`
}

func CalendarFromView(buckets []board.DateBucket) CalendarResponse {
	resp := CalendarResponse{Days: make([]DateBucketResponse, 0, len(buckets))}
	for _, bucket := range buckets {
		resp.Days = append(resp.Days, DateBucketResponse{
			Date:  bucket.Date,
			Items: ContentItemsFromModels(bucket.Items),
		})
	}
	return resp
}

type TypeBucketResponse struct {
	ContentType string                `json:"content_type"`
	Items       []ContentItemResponse `json:"items"`
}

type TypesResponse struct {
	Types []TypeBucketResponse `json:"types"`
}

func TypesFromView(buckets []board.TypeBucket) TypesResponse {
	resp := TypesResponse{Types: make([]TypeBucketResponse, 0, len(buckets))}
	for _, bucket := range buckets {
		resp.Types = append(resp.Types, TypeBucketResponse{
			ContentType: string(bucket.ContentType),
			Items:       ContentItemsFromModels(bucket.Items),
		})
	}
	return resp
}

type ClientResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type ClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

func ClientsFromProfiles(profiles []model.Profile) ClientsResponse {
	resp := ClientsResponse{Clients: make([]ClientResponse, 0, len(profiles))}
	for _, profile := range profiles {
		resp.Clients = append(resp.Clients, ClientResponse{
			ID:       profile.ID,
			Email:    profile.Email,
			FullName: profile.FullName,
		})
	}
	return resp
}

type ClientEmailsResponse struct {
	Emails []string `json:"emails"`
}
