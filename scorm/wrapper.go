package scorm

// wrapperJS is the SCORM 1.2 runtime adapter shipped as scorm_wrapper.js.
// It locates the LMS API across parent and opener windows with bounded
// retries and falls back to a localStorage-backed mock so packages remain
// testable outside an LMS. Completion is tracked per slide through
// cmi.objectives and quiz answers through cmi.interactions.
const wrapperJS = `// SCORM 1.2 API wrapper with mock fallback
var SCORM = {
    version: "1.2",
    initialized: false,
    sessionData: {answers: {}, startTime: null, interactionCount: 0},
    mockMode: false,
    mockStorage: null,

    initialize: function() {
        try {
            var API = this.getAPI();
            if (!API) {
                console.log('No LMS API found, using mock API');
                this.mockMode = true;
                this.mockStorage = this.getMockStorage();
                this.sessionData.startTime = new Date();
                this.initialized = true;
                return true;
            }

            if (API.LMSInitialize("") !== "true") return false;

            // Only set incomplete when no status exists yet, so a restart
            // does not clobber a completed attempt.
            var currentStatus = API.LMSGetValue("cmi.core.lesson_status");
            if (!currentStatus || currentStatus === "" || currentStatus === "not attempted") {
                API.LMSSetValue("cmi.core.lesson_status", "incomplete");
            }

            this.sessionData.startTime = new Date();
            this.initialized = true;
            return true;
        } catch (e) {
            console.error('SCORM init:', e);
            return false;
        }
    },

    getAPI: function() {
        var maxRetries = 10;
        var retryDelay = 100;

        for (var attempt = 0; attempt < maxRetries; attempt++) {
            var win = window;
            if (win.API != null) return win.API;

            while (win.API == null && win.parent != win) {
                win = win.parent;
                if (win.API != null) return win.API;
            }

            if (win.API == null && win.opener) {
                win = win.opener;
                if (win.API != null) return win.API;
            }

            if (attempt < maxRetries - 1) {
                var start = Date.now();
                while (Date.now() - start < retryDelay) {}
            }
        }
        return null;
    },

    getMockStorage: function() {
        var defaults = {
            'cmi.core.lesson_status': 'incomplete',
            'cmi.core.score.raw': '0',
            'cmi.core.score.max': '100',
            'cmi.core.lesson_location': '0'
        };
        try {
            var stored = localStorage.getItem('scorm_mock_data');
            return stored ? JSON.parse(stored) : defaults;
        } catch (e) {
            console.warn('localStorage not available, using memory storage');
            return defaults;
        }
    },

    saveMockData: function() {
        if (this.mockStorage && typeof localStorage !== 'undefined') {
            try {
                localStorage.setItem('scorm_mock_data', JSON.stringify(this.mockStorage));
            } catch (e) {
                console.warn('Failed to save mock data:', e);
            }
        }
    },

    setValue: function(p, v) {
        try {
            if (this.mockMode) {
                if (this.mockStorage) {
                    this.mockStorage[p] = v;
                    this.saveMockData();
                }
                return true;
            }
            var API = this.getAPI();
            return API && API.LMSSetValue(p, v) === "true";
        } catch (e) {
            console.error('setValue error:', e);
            return false;
        }
    },

    getValue: function(p) {
        try {
            if (this.mockMode) {
                return (this.mockStorage && this.mockStorage[p]) || "";
            }
            var API = this.getAPI();
            return API ? (API.LMSGetValue(p) || "") : "";
        } catch (e) {
            console.error('getValue error:', e);
            return "";
        }
    },

    commit: function() {
        try {
            if (this.mockMode) {
                this.saveMockData();
                return true;
            }
            var API = this.getAPI();
            return API && API.LMSCommit("") === "true";
        } catch (e) {
            console.error('commit error:', e);
            return false;
        }
    },

    markSlideComplete: function(slideIdx, totalSlides) {
        if (!this.initialized) return;
        var objId = 'obj_' + slideIdx;

        var existingId = this.getValue('cmi.objectives.' + slideIdx + '.id');
        var existingStatus = this.getValue('cmi.objectives.' + slideIdx + '.status');
        if (existingId === objId && existingStatus === 'completed') {
            if (totalSlides) this.checkCourseCompletion(totalSlides);
            return;
        }

        this.setValue('cmi.objectives.' + slideIdx + '.id', objId);
        this.setValue('cmi.objectives.' + slideIdx + '.status', 'completed');
        this.setValue('cmi.objectives.' + slideIdx + '.score.raw', '100');
        this.setValue('cmi.objectives.' + slideIdx + '.score.max', '100');
        this.commit();

        if (totalSlides) this.checkCourseCompletion(totalSlides);
    },

    checkCourseCompletion: function(totalSlides) {
        if (!this.initialized) return;
        for (var i = 0; i < totalSlides; i++) {
            if (this.getValue('cmi.objectives.' + i + '.status') !== 'completed') {
                return;
            }
        }
        this.setCourseComplete();
    },

    recordQuizAnswer: function(qId, selIdx, correct, options) {
        if (!this.initialized) return;

        var interactionIdx = this.sessionData.interactionCount++;
        var prefix = 'cmi.interactions.' + interactionIdx;
        this.setValue(prefix + '.id', qId);
        this.setValue(prefix + '.type', 'choice');
        this.setValue(prefix + '.student_response', selIdx.toString());
        this.setValue(prefix + '.result', correct ? 'correct' : 'incorrect');
        this.setValue(prefix + '.weighting', '1');

        if (options && options.length > 0) {
            for (var i = 0; i < options.length; i++) {
                if (options[i] && options[i].isCorrect) {
                    this.setValue(prefix + '.correct_responses.0.pattern', i.toString());
                    break;
                }
            }
        }

        this.commit();
        this.sessionData.answers[qId] = {selected: selIdx, correct: correct};
    },

    calculateScore: function() {
        var correct = 0, total = 0;
        for (var qId in this.sessionData.answers) {
            total++;
            if (this.sessionData.answers[qId].correct) correct++;
        }
        return total === 0 ? 0 : Math.round((correct / total) * 100);
    },

    submitScore: function() {
        var score = this.calculateScore();
        if (this.initialized) {
            this.setValue('cmi.core.score.raw', score);
            this.setValue('cmi.core.score.max', '100');
            this.commit();
        }
        return score;
    },

    saveProgress: function(slideIdx) {
        if (this.initialized) {
            this.setValue('cmi.core.lesson_location', slideIdx);
            this.commit();
        }
    },

    restoreProgress: function(totalSlides) {
        if (!this.initialized) return 0;

        var saved = this.getValue('cmi.core.lesson_location');
        var slideIndex = saved && !isNaN(saved) ? parseInt(saved) : 0;

        // Re-mark everything up to the saved position so a resumed attempt
        // shows previously viewed slides as done.
        if (totalSlides && totalSlides > 0) {
            for (var i = 0; i <= slideIndex && i < totalSlides; i++) {
                this.markSlideComplete(i, totalSlides);
            }
        }
        return slideIndex;
    },

    setCourseComplete: function() {
        if (!this.initialized) return;
        this.submitScore();
        for (var i = 0; i < 100; i++) {
            var objId = this.getValue('cmi.objectives.' + i + '.id');
            if (!objId || objId === '') break;
            this.setValue('cmi.objectives.' + i + '.status', 'completed');
            this.setValue('cmi.objectives.' + i + '.score.raw', '100');
            this.setValue('cmi.objectives.' + i + '.score.max', '100');
        }
        this.setValue('cmi.core.lesson_status', 'completed');
        this.commit();
    },

    terminate: function() {
        try {
            if (this.mockMode) {
                this.saveMockData();
            } else {
                var API = this.getAPI();
                if (API) API.LMSFinish("");
            }
            this.initialized = false;
        } catch (e) {
            console.error('terminate error:', e);
        }
    }
};
window.addEventListener('load', function() { SCORM.initialize(); });
window.addEventListener('unload', function() { SCORM.terminate(); });
`
