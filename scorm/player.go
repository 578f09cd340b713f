package scorm

import (
	"strconv"
	"strings"

	"github.com/jmcelroy/docent/models"
)

// buildPlayerHTML renders index.html: the player chrome plus the inline
// runtime that drives navigation, rendering and quiz handling. Course values
// are substituted by token replacement rather than a printf format so the
// percent signs and braces in the embedded JavaScript stay literal.
func buildPlayerHTML(course *models.Course) string {
	r := strings.NewReplacer(
		"{{COURSE_TITLE}}", EscapeHTML(course.Title),
		"{{TOTAL_SLIDES}}", strconv.Itoa(len(course.Templates)),
	)
	return r.Replace(playerHTMLTemplate)
}

const playerHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="X-UA-Compatible" content="IE=edge">
    <title>{{COURSE_TITLE}}</title>
    <link rel="stylesheet" href="styles.css">
</head>
<body>
    <div id="scorm-player">
        <header class="player-header">
            <h1 id="course-title">{{COURSE_TITLE}}</h1>
            <div class="progress-container">
                <div class="progress-bar">
                    <div id="progress-fill" class="progress-fill"></div>
                </div>
                <span id="progress-text" class="progress-text">0%</span>
            </div>
        </header>

        <main class="player-content">
            <div id="slide-container" class="slide-container">
                <div class="loading"><p>Loading...</p></div>
            </div>
        </main>

        <footer class="player-controls">
            <button id="prev-btn" class="nav-btn" disabled>&larr; Prev</button>
            <span id="slide-counter">1 of {{TOTAL_SLIDES}}</span>
            <button id="next-btn" class="nav-btn">Next &rarr;</button>
            <button id="finish-btn" class="finish-btn" style="display:none;">Finish</button>
        </footer>
    </div>

    <script src="scorm_wrapper.js" defer></script>
    <script src="course_data.js" defer></script>

    <script defer>
    var Player = {
        state: {
            currentSlide: 0,
            totalSlides: {{TOTAL_SLIDES}},
            courseData: null,
            initialized: false,
            quizAnswers: {},
            scormReady: false
        },

        init: async function() {
            try {
                await this.waitForCourseData(5000);
                if (!this.validateCourseData()) {
                    throw new Error('Invalid course data structure');
                }

                this.state.scormReady = SCORM.initialize();
                var savedSlide = SCORM.restoreProgress(this.state.totalSlides);
                this.state.currentSlide = Math.min(savedSlide, this.state.totalSlides - 1);

                this.loadSlide(this.state.currentSlide);
                this.updateNavigation();
                this.updateProgress();
                this.state.initialized = true;
                return true;
            } catch (error) {
                console.error('Player initialization failed:', error);
                this.showError('Failed to load course: ' + error.message);
                return false;
            }
        },

        waitForCourseData: function(timeoutMs) {
            return new Promise((resolve, reject) => {
                var startTime = Date.now();
                var checkData = () => {
                    if (typeof courseData !== 'undefined' && courseData.templates) {
                        resolve();
                    } else if (Date.now() - startTime > timeoutMs) {
                        reject(new Error('Timeout waiting for course data'));
                    } else {
                        setTimeout(checkData, 100);
                    }
                };
                checkData();
            });
        },

        validateCourseData: function() {
            if (!courseData || typeof courseData !== 'object') return false;
            if (!courseData.templates || !Array.isArray(courseData.templates)) return false;
            if (courseData.templates.length === 0) return false;
            this.state.totalSlides = courseData.templates.length;
            this.state.courseData = courseData;
            return true;
        },

        loadSlide: function(index) {
            try {
                if (index < 0 || index >= this.state.totalSlides) {
                    throw new Error('Invalid slide index: ' + index);
                }
                var slide = this.state.courseData.templates[index];
                if (!slide) {
                    throw new Error('Slide ' + index + ' not found in course data');
                }

                var content = '';
                try {
                    if (slide.type === 'mcq') {
                        content = this.renderMCQ(slide, index);
                    } else if (slide.type === 'welcome' || slide.type === 'content-text' ||
                               slide.type === 'content-video' || slide.type === 'summary') {
                        content = this.renderContent(slide);
                    } else {
                        content = '<div class="template unknown-template">' +
                            '<p>Unknown slide type: ' + this.sanitize(slide.type || '(none)') + '</p>' +
                            '</div>';
                    }
                } catch (renderError) {
                    console.error('Render error for slide', index, ':', renderError);
                    content = '<div class="slide error"><p>Failed to render slide: ' +
                        this.sanitize(renderError.message) + '</p></div>';
                }

                var container = document.getElementById('slide-container');
                if (!container) {
                    throw new Error('Slide container element not found');
                }
                container.innerHTML = content;
                this.state.currentSlide = index;

                if (this.state.scormReady) {
                    SCORM.saveProgress(index);
                }
                this.updateNavigation();
                this.updateProgress();
            } catch (error) {
                console.error('loadSlide failed:', error);
                this.showError('Error loading slide: ' + error.message);
            }
        },

        renderContent: function(slide) {
            var data = slide.data || {};
            var title = this.sanitize(slide.title || 'Untitled');
            var body = data.content || '';
            return '<div class="template content-template">' +
                   '<h2 class="content-title">' + title + '</h2>' +
                   '<div class="content-body">' + body + '</div>' +
                   '</div>';
        },

        renderMCQ: function(slide, idx) {
            if (!slide.data || !slide.data.questions || slide.data.questions.length === 0) {
                return '<div class="template"><p>No questions available</p></div>';
            }
            var question = slide.data.questions[0];
            var safeQuestion = this.sanitize(question.question || 'Question');
            var answeredIndex = this.state.quizAnswers[idx];

            var optionsHTML = '';
            if (question.options && Array.isArray(question.options)) {
                for (var i = 0; i < question.options.length; i++) {
                    var option = question.options[i];
                    if (!option) continue;
                    var safeText = this.sanitize(option.text || 'Option ' + (i + 1));
                    var isSelected = answeredIndex === i;
                    optionsHTML += '<label class="mcq-option' + (isSelected ? ' selected' : '') + '">' +
                        '<input type="radio" name="answer_' + idx + '" value="' + i +
                        '" onchange="Player.selectAnswer(' + idx + ', ' + i + ')"' +
                        (isSelected ? ' checked' : '') + '>' +
                        '<span class="option-text">' + safeText + '</span>' +
                        '</label>';
                }
            }

            return '<div class="template mcq-template">' +
                   '<h2 class="mcq-question">' + safeQuestion + '</h2>' +
                   '<div class="mcq-options">' + optionsHTML + '</div>' +
                   '<div id="feedback-' + idx + '" class="mcq-feedback"></div>' +
                   '</div>';
        },

        selectAnswer: function(slideIdx, optIdx) {
            try {
                var slide = this.state.courseData.templates[slideIdx];
                if (!slide || !slide.data || !slide.data.questions) return;
                var question = slide.data.questions[0];
                if (!question || !question.options) return;
                var option = question.options[optIdx];
                if (!option) return;

                var correct = false;
                if (typeof option.isCorrect === 'boolean') {
                    correct = option.isCorrect;
                } else if (typeof option.isCorrect === 'string') {
                    correct = option.isCorrect.toLowerCase() === 'true';
                } else {
                    correct = Boolean(option.isCorrect);
                }

                this.state.quizAnswers[slideIdx] = optIdx;
                if (this.state.scormReady) {
                    SCORM.recordQuizAnswer('q_' + slideIdx, optIdx, correct, question.options);
                }

                var fb = document.getElementById('feedback-' + slideIdx);
                if (fb) {
                    fb.innerHTML = '<p class="' + (correct ? 'ok' : 'err') + '">' +
                        (correct ? 'Correct!' : 'Incorrect') + '</p>';
                }
            } catch (error) {
                console.error('selectAnswer error:', error);
            }
        },

        sanitize: function(text) {
            if (!text) return '';
            var div = document.createElement('div');
            div.textContent = text;
            return div.innerHTML;
        },

        updateNavigation: function() {
            var prev = document.getElementById('prev-btn');
            var next = document.getElementById('next-btn');
            var fin = document.getElementById('finish-btn');

            if (prev) prev.disabled = this.state.currentSlide === 0;

            if (this.state.currentSlide === this.state.totalSlides - 1) {
                if (next) next.style.display = 'none';
                if (fin) fin.style.display = 'inline-block';
            } else {
                if (next) next.style.display = 'inline-block';
                if (fin) fin.style.display = 'none';
            }

            var cnt = document.getElementById('slide-counter');
            if (cnt) {
                cnt.textContent = (this.state.currentSlide + 1) + ' of ' + this.state.totalSlides;
            }
        },

        updateProgress: function() {
            var progressFill = document.getElementById('progress-fill');
            var progressText = document.getElementById('progress-text');
            if (!progressFill || !progressText) return;
            var pct = Math.round(((this.state.currentSlide + 1) / this.state.totalSlides) * 100);
            progressFill.style.width = pct + '%';
            progressText.textContent = pct + '%';
        },

        finishCourse: function() {
            try {
                for (var i = 0; i < this.state.totalSlides; i++) {
                    if (this.state.scormReady) {
                        SCORM.markSlideComplete(i, this.state.totalSlides);
                    }
                }
                if (this.state.scormReady) {
                    SCORM.setCourseComplete();
                    var score = SCORM.calculateScore();
                    alert('Course Complete! Score: ' + score + '%');
                } else {
                    alert('Course completed (local only - SCORM not available)');
                }
            } catch (error) {
                console.error('finishCourse error:', error);
                alert('Course completed (with errors)');
            }
        },

        showError: function(msg) {
            var container = document.getElementById('slide-container');
            if (container) {
                container.innerHTML = '<div class="error">' + this.sanitize(msg) + '</div>';
            }
        }
    };

    window.addEventListener('load', async function() {
        await Player.init();
    });

    document.addEventListener('DOMContentLoaded', function() {
        var prevBtn = document.getElementById('prev-btn');
        var nextBtn = document.getElementById('next-btn');
        var finishBtn = document.getElementById('finish-btn');

        if (prevBtn) {
            prevBtn.onclick = function() {
                if (Player.state.currentSlide > 0) {
                    Player.loadSlide(Player.state.currentSlide - 1);
                }
            };
        }
        if (nextBtn) {
            nextBtn.onclick = function() {
                if (Player.state.currentSlide < Player.state.totalSlides - 1) {
                    if (Player.state.scormReady) {
                        SCORM.markSlideComplete(Player.state.currentSlide, Player.state.totalSlides);
                    }
                    Player.loadSlide(Player.state.currentSlide + 1);
                }
            };
        }
        if (finishBtn) {
            finishBtn.onclick = function() {
                Player.finishCourse();
            };
        }
    });
    </script>
</body>
</html>
`
